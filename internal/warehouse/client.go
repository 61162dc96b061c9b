// Package warehouse is the read-only access layer over the bridge event
// store: a ClickHouse connection plus the two parameterized range queries
// that feed every aggregation.
package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"

	"github.com/bridgewatch/bridge-metrics/internal/config"
)

// Open connects to ClickHouse and verifies the connection with a ping.
func Open(ctx context.Context, cfg config.ClickHouse, logger *zap.Logger) (clickhouse.Conn, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: cfg.Addr,
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout:  30 * time.Second,
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to clickhouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse ping failed: %w", err)
	}

	logger.Info("connected to clickhouse",
		zap.Strings("addr", cfg.Addr),
		zap.String("database", cfg.Database))
	return conn, nil
}
