// Package metrics exposes one operation per dashboard chart, composing the
// event source, the normalizer, and the aggregation engine. Every operation
// is memoized by its full parameter tuple.
package metrics

import (
	"context"

	"go.uber.org/zap"

	"github.com/bridgewatch/bridge-metrics/internal/aggregator"
	"github.com/bridgewatch/bridge-metrics/internal/cache"
	"github.com/bridgewatch/bridge-metrics/internal/models"
	"github.com/bridgewatch/bridge-metrics/internal/normalizer"
	"github.com/bridgewatch/bridge-metrics/internal/warehouse"
)

// Service computes chart results over the configured event source.
type Service struct {
	source warehouse.EventSource
	engine *aggregator.Engine
	cache  *cache.Results
	logger *zap.Logger
}

// NewService wires a source to the aggregation engine with a result cache of
// the given size.
func NewService(source warehouse.EventSource, cacheSize int, logger *zap.Logger) (*Service, error) {
	c, err := cache.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{
		source: source,
		engine: aggregator.New(),
		cache:  c,
		logger: logger,
	}, nil
}

// events fetches both raw sources for the range, normalizes them, and applies
// the single range-filter stage. The normalized stream is cached per
// (start, end) so the chart operations sharing a range share one fetch.
func (s *Service) events(ctx context.Context, p models.Params) ([]models.NormalizedEvent, error) {
	key := cache.Key("events", models.Params{Start: p.Start, End: p.End})
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.NormalizedEvent), nil
	}

	transfers, err := s.source.Transfers(ctx, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	calls, err := s.source.Calls(ctx, p.Start, p.End)
	if err != nil {
		return nil, err
	}

	events := aggregator.FilterRange(normalizer.Normalize(transfers, calls), p.Start, p.End)
	s.logger.Debug("loaded events",
		zap.Int("transfers", len(transfers)),
		zap.Int("gmp_calls", len(calls)),
		zap.Int("in_range", len(events)))
	s.cache.Set(key, events)
	return events, nil
}

// Overview returns whole-range KPIs as a single row.
func (s *Service) Overview(ctx context.Context, p models.Params) (models.MetricRow, error) {
	key := cache.Key("overview", p)
	if v, ok := s.cache.Get(key); ok {
		return v.(models.MetricRow), nil
	}
	events, err := s.events(ctx, p)
	if err != nil {
		return models.MetricRow{}, err
	}
	row := models.MetricRow{Group: "all"}
	if rows := s.engine.Aggregate(events, aggregator.Overall, aggregator.SortByGroup); len(rows) > 0 {
		row = rows[0]
	}
	s.cache.Set(key, row)
	return row, nil
}

// TimeSeries returns per-bucket metrics, ascending by bucket.
func (s *Service) TimeSeries(ctx context.Context, p models.Params) ([]models.MetricRow, error) {
	return s.metricRows(ctx, p, cache.Key("series", p), aggregator.ByBucket(p.Timeframe), aggregator.SortByGroup)
}

// BySourceChain returns the source-chain leaderboard.
func (s *Service) BySourceChain(ctx context.Context, p models.Params, sortBy aggregator.SortBy) ([]models.MetricRow, error) {
	return s.metricRows(ctx, p, cache.Key("source_chain", p, string(sortBy)), aggregator.BySourceChain, sortBy)
}

// ByDestinationChain returns the destination-chain leaderboard.
func (s *Service) ByDestinationChain(ctx context.Context, p models.Params, sortBy aggregator.SortBy) ([]models.MetricRow, error) {
	return s.metricRows(ctx, p, cache.Key("destination_chain", p, string(sortBy)), aggregator.ByDestinationChain, sortBy)
}

// ByPath returns the source➡destination route leaderboard. Routes with a
// missing segment keep their partial label.
func (s *Service) ByPath(ctx context.Context, p models.Params, sortBy aggregator.SortBy) ([]models.MetricRow, error) {
	return s.metricRows(ctx, p, cache.Key("path", p, string(sortBy)), aggregator.ByPath, sortBy)
}

// VolumeCohorts buckets users by total bridged volume.
func (s *Service) VolumeCohorts(ctx context.Context, p models.Params) ([]models.CohortRow, error) {
	key := cache.Key("volume_cohorts", p)
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.CohortRow), nil
	}
	events, err := s.events(ctx, p)
	if err != nil {
		return nil, err
	}
	rows := s.engine.VolumeCohorts(events)
	s.cache.Set(key, rows)
	return rows, nil
}

// ActiveDayCohorts buckets users by distinct active days.
func (s *Service) ActiveDayCohorts(ctx context.Context, p models.Params) ([]models.CohortRow, error) {
	key := cache.Key("day_cohorts", p)
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.CohortRow), nil
	}
	events, err := s.events(ctx, p)
	if err != nil {
		return nil, err
	}
	rows := s.engine.ActiveDayCohorts(events)
	s.cache.Set(key, rows)
	return rows, nil
}

// NewUsers returns the cumulative new-users series.
func (s *Service) NewUsers(ctx context.Context, p models.Params) ([]models.NewUserPoint, error) {
	key := cache.Key("new_users", p)
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.NewUserPoint), nil
	}
	events, err := s.events(ctx, p)
	if err != nil {
		return nil, err
	}
	points := s.engine.NewUsers(events, p.Timeframe)
	s.cache.Set(key, points)
	return points, nil
}

func (s *Service) metricRows(ctx context.Context, p models.Params, key string, group aggregator.GroupFunc, sortBy aggregator.SortBy) ([]models.MetricRow, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.([]models.MetricRow), nil
	}
	events, err := s.events(ctx, p)
	if err != nil {
		return nil, err
	}
	rows := s.engine.Aggregate(events, group, sortBy)
	s.cache.Set(key, rows)
	return rows, nil
}
