// Package parser reads local CSV extracts of the two bridge event tables.
// It backs the CSV event source used for offline runs and test fixtures.
package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/bridgewatch/bridge-metrics/internal/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// ParseTransfers reads a token-transfer extract. Expected columns:
// created_at, source_chain, destination_chain, recipient_address,
// raw_amount, raw_price, raw_fee, id, asset.
func ParseTransfers(filePath string) ([]models.TransferEvent, error) {
	records, err := readRecords(filePath, 9)
	if err != nil {
		return nil, err
	}

	events := make([]models.TransferEvent, 0, len(records))
	for i, rec := range records {
		createdAt, err := time.Parse(timestampLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad created_at: %w", filePath, i+2, err)
		}
		events = append(events, models.TransferEvent{
			CreatedAt:        createdAt,
			SourceChain:      optional(rec[1]),
			DestinationChain: optional(rec[2]),
			Recipient:        rec[3],
			RawAmount:        dynamic(rec[4]),
			RawPrice:         dynamic(rec[5]),
			RawFee:           dynamic(rec[6]),
			ID:               rec[7],
			Asset:            optional(rec[8]),
		})
	}
	return events, nil
}

// ParseCalls reads a GMP call extract. Expected columns: created_at,
// source_chain, destination_chain, sender_address, raw_amount,
// raw_value_usd, raw_gas_used, raw_gas_price_usd, raw_express_fee_usd, id,
// symbol.
func ParseCalls(filePath string) ([]models.GmpEvent, error) {
	records, err := readRecords(filePath, 11)
	if err != nil {
		return nil, err
	}

	events := make([]models.GmpEvent, 0, len(records))
	for i, rec := range records {
		createdAt, err := time.Parse(timestampLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad created_at: %w", filePath, i+2, err)
		}
		events = append(events, models.GmpEvent{
			CreatedAt:        createdAt,
			SourceChain:      optional(rec[1]),
			DestinationChain: optional(rec[2]),
			Sender:           rec[3],
			RawAmount:        dynamic(rec[4]),
			RawValueUSD:      dynamic(rec[5]),
			RawGasUsed:       dynamic(rec[6]),
			RawGasPriceUSD:   dynamic(rec[7]),
			RawExpressFeeUSD: dynamic(rec[8]),
			ID:               rec[9],
			Symbol:           optional(rec[10]),
		})
	}
	return events, nil
}

func readRecords(filePath string, fields int) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = fields
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil // skip header
}

// optional maps an empty CSV field to a missing value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// dynamic keeps raw numeric fields loosely typed; an empty field is absent.
func dynamic(s string) any {
	if s == "" {
		return nil
	}
	return s
}
