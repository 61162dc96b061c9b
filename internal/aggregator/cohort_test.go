package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bridgewatch/bridge-metrics/internal/models"
)

func TestClassifyVolume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		volume   float64
		expected string
	}{
		{"boundary stays in the lower cohort", 100.00, "≤100"},
		{"just above the boundary moves up", 100.01, "(100,1000]"},
		{"upper boundary of the second cohort", 1000, "(100,1000]"},
		{"mid-range cohort", 50_000, "(10000,100000]"},
		{"top cohort is open-ended", 5_000_000, ">1000000"},
		{"zero volume stays in the bottom cohort", 0, "≤100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, volumeLabels[classifyVolume(tt.volume)])
		})
	}
}

func TestClassifyDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		days     int
		expected string
	}{
		{1, "1 Day"},
		{2, "[2,5] Days"},
		{5, "[2,5] Days"},
		{6, "[6,10] Days"},
		{25, "[11,25] Days"},
		{50, "[26,50] Days"},
		{51, "≥51 Days"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, dayLabels[classifyDays(tt.days)], "days=%d", tt.days)
	}
}

func TestVolumeCohorts(t *testing.T) {
	t.Parallel()

	engine := New()
	day1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	t.Run("per-user totals span events and days", func(t *testing.T) {
		events := []models.NormalizedEvent{
			event("t1", "alice", day1, f64(50)),
			event("t2", "alice", day2, f64(40)),
		}

		rows := engine.VolumeCohorts(events)
		require.Len(t, rows, 1)
		assert.Equal(t, "≤100", rows[0].Cohort)
		assert.Equal(t, uint64(1), rows[0].UserCount)
	})

	t.Run("users with only nil amounts are excluded", func(t *testing.T) {
		events := []models.NormalizedEvent{
			event("t1", "alice", day1, f64(10)),
			event("t2", "ghost", day1, nil),
		}

		rows := engine.VolumeCohorts(events)
		var total uint64
		for _, row := range rows {
			total += row.UserCount
		}
		assert.Equal(t, uint64(1), total, "ghost must not be assigned a cohort")
	})

	t.Run("rows come back in threshold order without empty cohorts", func(t *testing.T) {
		events := []models.NormalizedEvent{
			event("t1", "whale", day1, f64(2_000_000)),
			event("t2", "shrimp", day1, f64(5)),
		}

		rows := engine.VolumeCohorts(events)
		require.Len(t, rows, 2)
		assert.Equal(t, "≤100", rows[0].Cohort)
		assert.Equal(t, ">1000000", rows[1].Cohort)
	})

	t.Run("empty input yields an empty slice", func(t *testing.T) {
		rows := engine.VolumeCohorts(nil)
		require.NotNil(t, rows)
		assert.Empty(t, rows)
	})
}

func TestActiveDayCohorts(t *testing.T) {
	t.Parallel()

	engine := New()
	day1 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	day1Later := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	events := []models.NormalizedEvent{
		event("t1", "alice", day1, f64(1)),
		event("t2", "alice", day1Later, f64(1)), // same day, still one active day
		event("t3", "alice", day2, f64(1)),
		event("g1", "bob", day1, nil), // nil amount still counts as activity
	}

	rows := engine.ActiveDayCohorts(events)
	require.Len(t, rows, 2)
	assert.Equal(t, models.CohortRow{Cohort: "1 Day", UserCount: 1}, rows[0])
	assert.Equal(t, models.CohortRow{Cohort: "[2,5] Days", UserCount: 1}, rows[1])
}
