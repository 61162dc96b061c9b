package aggregator

import (
	"github.com/bridgewatch/bridge-metrics/internal/models"
)

// Cohort boundaries are fixed, ordered, and closed on the upper bound:
// value ≤ threshold decides membership, first ascending match wins.
var (
	volumeThresholds = []float64{100, 1000, 10_000, 100_000, 1_000_000}
	volumeLabels     = []string{
		"≤100",
		"(100,1000]",
		"(1000,10000]",
		"(10000,100000]",
		"(100000,1000000]",
		">1000000",
	}

	dayThresholds = []int{1, 5, 10, 25, 50}
	dayLabels     = []string{
		"1 Day",
		"[2,5] Days",
		"[6,10] Days",
		"[11,25] Days",
		"[26,50] Days",
		"≥51 Days",
	}
)

// UserVolumes totals non-nil USD amounts per user. Users whose events all
// carry nil amounts have no aggregate and are absent from the result, which
// excludes them from cohort counts.
func UserVolumes(events []models.NormalizedEvent) map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range events {
		if e.AmountUSD == nil {
			continue
		}
		totals[e.User] += *e.AmountUSD
	}
	return totals
}

// UserActiveDays counts distinct calendar dates with at least one event per
// user.
func UserActiveDays(events []models.NormalizedEvent) map[string]int {
	seen := make(map[string]map[string]struct{})
	for _, e := range events {
		day := Bucket(e.CreatedAt, models.TimeframeDay).Format("2006-01-02")
		days, ok := seen[e.User]
		if !ok {
			days = make(map[string]struct{})
			seen[e.User] = days
		}
		days[day] = struct{}{}
	}
	counts := make(map[string]int, len(seen))
	for user, days := range seen {
		counts[user] = len(days)
	}
	return counts
}

// VolumeCohorts buckets users by total bridged volume in USD. Rows come back
// in threshold order; cohorts with no users are omitted.
func (a *Engine) VolumeCohorts(events []models.NormalizedEvent) []models.CohortRow {
	counts := make([]uint64, len(volumeLabels))
	for _, total := range UserVolumes(events) {
		counts[classifyVolume(total)]++
	}
	return cohortRows(volumeLabels, counts)
}

// ActiveDayCohorts buckets users by their count of distinct active days.
func (a *Engine) ActiveDayCohorts(events []models.NormalizedEvent) []models.CohortRow {
	counts := make([]uint64, len(dayLabels))
	for _, days := range UserActiveDays(events) {
		counts[classifyDays(days)]++
	}
	return cohortRows(dayLabels, counts)
}

func classifyVolume(v float64) int {
	for i, threshold := range volumeThresholds {
		if v <= threshold {
			return i
		}
	}
	return len(volumeLabels) - 1
}

func classifyDays(d int) int {
	for i, threshold := range dayThresholds {
		if d <= threshold {
			return i
		}
	}
	return len(dayLabels) - 1
}

func cohortRows(labels []string, counts []uint64) []models.CohortRow {
	rows := make([]models.CohortRow, 0, len(labels))
	for i, label := range labels {
		if counts[i] == 0 {
			continue
		}
		rows = append(rows, models.CohortRow{Cohort: label, UserCount: counts[i]})
	}
	return rows
}
