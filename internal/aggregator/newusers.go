package aggregator

import (
	"sort"
	"time"

	"github.com/bridgewatch/bridge-metrics/internal/models"
)

// NewUsers builds the cumulative new-users series. A user is new in the
// bucket holding their earliest event date across both services, so the
// per-user minimum is computed over the whole event set before bucketing — a
// returning user is never counted as new twice. Empty input yields an empty,
// well-typed series.
func (a *Engine) NewUsers(events []models.NormalizedEvent, tf models.Timeframe) []models.NewUserPoint {
	firstSeen := make(map[string]time.Time)
	for _, e := range events {
		day := Bucket(e.CreatedAt, models.TimeframeDay)
		if prev, ok := firstSeen[e.User]; !ok || day.Before(prev) {
			firstSeen[e.User] = day
		}
	}

	perBucket := make(map[time.Time]uint64)
	for _, day := range firstSeen {
		perBucket[Bucket(day, tf)]++
	}

	buckets := make([]time.Time, 0, len(perBucket))
	for b := range perBucket {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Before(buckets[j]) })

	points := make([]models.NewUserPoint, 0, len(buckets))
	var running uint64
	for _, b := range buckets {
		running += perBucket[b]
		points = append(points, models.NewUserPoint{
			Bucket:             b,
			NewUsers:           perBucket[b],
			CumulativeNewUsers: running,
		})
	}
	return points
}
