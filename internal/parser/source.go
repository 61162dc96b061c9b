package parser

import (
	"context"
	"time"

	"github.com/bridgewatch/bridge-metrics/internal/models"
)

// CSVSource implements warehouse.EventSource over two local CSV extracts,
// applying the same inclusive date-range filter the warehouse queries do.
type CSVSource struct {
	TransfersPath string
	CallsPath     string
}

// NewCSVSource returns a source reading the given extract files.
func NewCSVSource(transfersPath, callsPath string) *CSVSource {
	return &CSVSource{TransfersPath: transfersPath, CallsPath: callsPath}
}

// Transfers parses the transfer extract and keeps rows within [start, end].
func (s *CSVSource) Transfers(_ context.Context, start, end time.Time) ([]models.TransferEvent, error) {
	all, err := ParseTransfers(s.TransfersPath)
	if err != nil {
		return nil, err
	}
	events := make([]models.TransferEvent, 0, len(all))
	for _, e := range all {
		if inRange(e.CreatedAt, start, end) {
			events = append(events, e)
		}
	}
	return events, nil
}

// Calls parses the GMP extract and keeps rows within [start, end].
func (s *CSVSource) Calls(_ context.Context, start, end time.Time) ([]models.GmpEvent, error) {
	all, err := ParseCalls(s.CallsPath)
	if err != nil {
		return nil, err
	}
	events := make([]models.GmpEvent, 0, len(all))
	for _, e := range all {
		if inRange(e.CreatedAt, start, end) {
			events = append(events, e)
		}
	}
	return events, nil
}

func inRange(t, start, end time.Time) bool {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	y, m, d = start.Date()
	lo := time.Date(y, m, d, 0, 0, 0, 0, start.Location())
	y, m, d = end.Date()
	hi := time.Date(y, m, d, 0, 0, 0, 0, end.Location())
	return !day.Before(lo) && !day.After(hi)
}
