package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bridgewatch/bridge-metrics/internal/api"
	"github.com/bridgewatch/bridge-metrics/internal/config"
	"github.com/bridgewatch/bridge-metrics/internal/logging"
	"github.com/bridgewatch/bridge-metrics/internal/metrics"
	"github.com/bridgewatch/bridge-metrics/internal/models"
	"github.com/bridgewatch/bridge-metrics/internal/parser"
	"github.com/bridgewatch/bridge-metrics/internal/utils"
	"github.com/bridgewatch/bridge-metrics/internal/warehouse"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	var source warehouse.EventSource
	switch cfg.Source {
	case "csv":
		source = parser.NewCSVSource(cfg.CSV.Transfers, cfg.CSV.Calls)
		logger.Info("using csv event source",
			zap.String("transfers", cfg.CSV.Transfers),
			zap.String("calls", cfg.CSV.Calls))
	default:
		conn, err := warehouse.Open(ctx, cfg.ClickHouse, logger)
		if err != nil {
			logger.Fatal("opening warehouse", zap.Error(err))
		}
		defer conn.Close()
		source = warehouse.NewClickHouseSource(conn, cfg.Routers, logger)
	}

	svc, err := metrics.NewService(source, cfg.CacheSize, logger)
	if err != nil {
		logger.Fatal("building metrics service", zap.Error(err))
	}

	// Print the KPI snapshot for the trailing 30 days before serving.
	now := time.Now()
	p := models.Params{
		Timeframe: models.TimeframeDay,
		Start:     now.AddDate(0, 0, -30),
		End:       now,
	}
	if overview, err := svc.Overview(ctx, p); err != nil {
		logger.Warn("computing overview snapshot", zap.Error(err))
	} else {
		utils.DisplayOverview(overview)
	}

	server := api.NewServer(svc, logger)
	logger.Info("serving bridge metrics", zap.String("listen", cfg.Listen))
	if err := http.ListenAndServe(cfg.Listen, server.Router()); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}
