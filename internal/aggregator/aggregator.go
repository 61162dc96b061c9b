// Package aggregator computes the grouped metrics behind every dashboard
// chart: time-series and leaderboard MetricRows, user cohorts, and the
// cumulative new-users series.
package aggregator

import (
	"math"
	"sort"
	"time"

	"github.com/bridgewatch/bridge-metrics/internal/models"
)

// PathSeparator joins source and destination chain into a path label.
const PathSeparator = "➡"

// GroupFunc derives the grouping label for one normalized event.
type GroupFunc func(models.NormalizedEvent) string

// SortBy selects the ordering of aggregated rows. Grouping by time bucket
// uses SortByGroup (ascending); leaderboards sort descending by the chosen
// metric, volume by default.
type SortBy string

const (
	SortByGroup     SortBy = "group"
	SortByVolume    SortBy = "volume"
	SortByTransfers SortBy = "transfers"
	SortByUsers     SortBy = "users"
)

// DefaultLeaderboardSort is the documented default for chain and path
// breakdowns.
const DefaultLeaderboardSort = SortByVolume

// Engine aggregates normalized events into MetricRows. It holds no state;
// repeated runs over the same input produce identical rows.
type Engine struct{}

// New returns an aggregation engine.
func New() *Engine {
	return &Engine{}
}

// ByBucket groups events into calendar buckets of the given timeframe,
// labeled by the bucket's start date.
func ByBucket(tf models.Timeframe) GroupFunc {
	return func(e models.NormalizedEvent) string {
		return Bucket(e.CreatedAt, tf).Format("2006-01-02")
	}
}

// BySourceChain groups by the event's source chain label.
func BySourceChain(e models.NormalizedEvent) string {
	return e.SourceChain
}

// ByDestinationChain groups by the event's destination chain label.
func ByDestinationChain(e models.NormalizedEvent) string {
	return e.DestinationChain
}

// ByPath groups by the source➡destination route. Missing segments stay empty
// rather than dropping the row.
func ByPath(e models.NormalizedEvent) string {
	return e.SourceChain + PathSeparator + e.DestinationChain
}

// Overall collapses every event into a single group.
func Overall(models.NormalizedEvent) string {
	return "all"
}

// Bucket truncates t to the start of its timeframe bucket: the calendar date
// for day, the Monday of its ISO week, or the first of its month.
func Bucket(t time.Time, tf models.Timeframe) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	switch tf {
	case models.TimeframeWeek:
		offset := (int(day.Weekday()) + 6) % 7 // Monday start
		return day.AddDate(0, 0, -offset)
	case models.TimeframeMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}

// FilterRange keeps events whose calendar date falls within [start, end],
// both inclusive.
func FilterRange(events []models.NormalizedEvent, start, end time.Time) []models.NormalizedEvent {
	lo := Bucket(start, models.TimeframeDay)
	hi := Bucket(end, models.TimeframeDay)
	out := make([]models.NormalizedEvent, 0, len(events))
	for _, e := range events {
		d := Bucket(e.CreatedAt, models.TimeframeDay)
		if d.Before(lo) || d.After(hi) {
			continue
		}
		out = append(out, e)
	}
	return out
}

type groupAccum struct {
	ids    map[string]struct{}
	users  map[string]struct{}
	volume float64
}

// Aggregate produces one MetricRow per distinct group label present in
// events. Transfer counts are distinct by event id and user counts distinct
// by user across both services; nil amounts are excluded from the volume sum,
// never treated as zero. The volume is rounded to the nearest integer USD.
func (a *Engine) Aggregate(events []models.NormalizedEvent, group GroupFunc, sortBy SortBy) []models.MetricRow {
	accums := make(map[string]*groupAccum)
	for _, e := range events {
		key := group(e)
		acc, ok := accums[key]
		if !ok {
			acc = &groupAccum{
				ids:   make(map[string]struct{}),
				users: make(map[string]struct{}),
			}
			accums[key] = acc
		}
		acc.ids[e.ID] = struct{}{}
		acc.users[e.User] = struct{}{}
		if e.AmountUSD != nil {
			acc.volume += *e.AmountUSD
		}
	}

	rows := make([]models.MetricRow, 0, len(accums))
	for key, acc := range accums {
		rows = append(rows, models.MetricRow{
			Group:         key,
			TransferCount: uint64(len(acc.ids)),
			UserCount:     uint64(len(acc.users)),
			VolumeUSD:     math.Round(acc.volume),
		})
	}
	sortRows(rows, sortBy)
	return rows
}

func sortRows(rows []models.MetricRow, sortBy SortBy) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch sortBy {
		case SortByVolume:
			if a.VolumeUSD != b.VolumeUSD {
				return a.VolumeUSD > b.VolumeUSD
			}
		case SortByTransfers:
			if a.TransferCount != b.TransferCount {
				return a.TransferCount > b.TransferCount
			}
		case SortByUsers:
			if a.UserCount != b.UserCount {
				return a.UserCount > b.UserCount
			}
		}
		return a.Group < b.Group
	})
}
