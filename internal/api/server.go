// Package api serves each dashboard chart as a JSON endpoint.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/bridgewatch/bridge-metrics/internal/aggregator"
	"github.com/bridgewatch/bridge-metrics/internal/models"
	"github.com/bridgewatch/bridge-metrics/internal/warehouse"
)

// Metrics is the chart-computation surface the server depends on.
type Metrics interface {
	Overview(ctx context.Context, p models.Params) (models.MetricRow, error)
	TimeSeries(ctx context.Context, p models.Params) ([]models.MetricRow, error)
	BySourceChain(ctx context.Context, p models.Params, sortBy aggregator.SortBy) ([]models.MetricRow, error)
	ByDestinationChain(ctx context.Context, p models.Params, sortBy aggregator.SortBy) ([]models.MetricRow, error)
	ByPath(ctx context.Context, p models.Params, sortBy aggregator.SortBy) ([]models.MetricRow, error)
	VolumeCohorts(ctx context.Context, p models.Params) ([]models.CohortRow, error)
	ActiveDayCohorts(ctx context.Context, p models.Params) ([]models.CohortRow, error)
	NewUsers(ctx context.Context, p models.Params) ([]models.NewUserPoint, error)
}

// Server holds the API dependencies.
type Server struct {
	metrics Metrics
	logger  *zap.Logger
}

// NewServer builds an API server over the given metrics service.
func NewServer(m Metrics, logger *zap.Logger) *Server {
	return &Server{metrics: m, logger: logger}
}

// Router registers every chart endpoint.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/overview", s.handleOverview).Methods(http.MethodGet)
	api.HandleFunc("/transfers/series", s.handleTimeSeries).Methods(http.MethodGet)
	api.HandleFunc("/chains/source", s.handleSourceChains).Methods(http.MethodGet)
	api.HandleFunc("/chains/destination", s.handleDestinationChains).Methods(http.MethodGet)
	api.HandleFunc("/paths", s.handlePaths).Methods(http.MethodGet)
	api.HandleFunc("/cohorts/volume", s.handleVolumeCohorts).Methods(http.MethodGet)
	api.HandleFunc("/cohorts/days", s.handleDayCohorts).Methods(http.MethodGet)
	api.HandleFunc("/users/new", s.handleNewUsers).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	return r
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	p, ok := s.params(w, r)
	if !ok {
		return
	}
	row, err := s.metrics.Overview(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, row)
}

func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	p, ok := s.params(w, r)
	if !ok {
		return
	}
	rows, err := s.metrics.TimeSeries(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rows)
}

func (s *Server) handleSourceChains(w http.ResponseWriter, r *http.Request) {
	s.handleLeaderboard(w, r, s.metrics.BySourceChain)
}

func (s *Server) handleDestinationChains(w http.ResponseWriter, r *http.Request) {
	s.handleLeaderboard(w, r, s.metrics.ByDestinationChain)
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	s.handleLeaderboard(w, r, s.metrics.ByPath)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request,
	fetch func(context.Context, models.Params, aggregator.SortBy) ([]models.MetricRow, error)) {
	p, ok := s.params(w, r)
	if !ok {
		return
	}
	sortBy, ok := s.sortBy(w, r)
	if !ok {
		return
	}
	rows, err := fetch(r.Context(), p, sortBy)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rows)
}

func (s *Server) handleVolumeCohorts(w http.ResponseWriter, r *http.Request) {
	s.handleCohorts(w, r, s.metrics.VolumeCohorts)
}

func (s *Server) handleDayCohorts(w http.ResponseWriter, r *http.Request) {
	s.handleCohorts(w, r, s.metrics.ActiveDayCohorts)
}

func (s *Server) handleCohorts(w http.ResponseWriter, r *http.Request,
	fetch func(context.Context, models.Params) ([]models.CohortRow, error)) {
	p, ok := s.params(w, r)
	if !ok {
		return
	}
	rows, err := fetch(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, rows)
}

func (s *Server) handleNewUsers(w http.ResponseWriter, r *http.Request) {
	p, ok := s.params(w, r)
	if !ok {
		return
	}
	points, err := s.metrics.NewUsers(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, points)
}

// params parses timeframe/from/to. Dates are required, inclusive, in
// YYYY-MM-DD; the timeframe defaults to day.
func (s *Server) params(w http.ResponseWriter, r *http.Request) (models.Params, bool) {
	q := r.URL.Query()

	tf := models.Timeframe(q.Get("timeframe"))
	if tf == "" {
		tf = models.TimeframeDay
	}
	if !tf.Valid() {
		http.Error(w, "invalid timeframe: want day, week, or month", http.StatusBadRequest)
		return models.Params{}, false
	}

	from, err := time.Parse("2006-01-02", q.Get("from"))
	if err != nil {
		http.Error(w, "missing or invalid 'from' date, want YYYY-MM-DD", http.StatusBadRequest)
		return models.Params{}, false
	}
	to, err := time.Parse("2006-01-02", q.Get("to"))
	if err != nil {
		http.Error(w, "missing or invalid 'to' date, want YYYY-MM-DD", http.StatusBadRequest)
		return models.Params{}, false
	}
	if to.Before(from) {
		http.Error(w, "'to' must not precede 'from'", http.StatusBadRequest)
		return models.Params{}, false
	}

	return models.Params{Timeframe: tf, Start: from, End: to}, true
}

func (s *Server) sortBy(w http.ResponseWriter, r *http.Request) (aggregator.SortBy, bool) {
	switch v := r.URL.Query().Get("sort"); v {
	case "":
		return aggregator.DefaultLeaderboardSort, true
	case string(aggregator.SortByVolume), string(aggregator.SortByTransfers), string(aggregator.SortByUsers):
		return aggregator.SortBy(v), true
	default:
		http.Error(w, "invalid sort: want volume, transfers, or users", http.StatusBadRequest)
		return "", false
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

// writeError maps warehouse failures to 502 and everything else to 500.
// Per-record value anomalies never reach here; the normalizer absorbs them.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var qerr *warehouse.QueryError
	if errors.As(err, &qerr) {
		s.logger.Error("warehouse query failed", zap.String("table", qerr.Table), zap.Error(qerr.Err))
		http.Error(w, "upstream warehouse query failed", http.StatusBadGateway)
		return
	}
	s.logger.Error("chart computation failed", zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
