package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"

	"github.com/bridgewatch/bridge-metrics/internal/models"
)

// EventSource hands back the raw bridge events for an inclusive calendar
// date range. Implementations: the ClickHouse source below and the CSV
// source in internal/parser.
type EventSource interface {
	Transfers(ctx context.Context, start, end time.Time) ([]models.TransferEvent, error)
	Calls(ctx context.Context, start, end time.Time) ([]models.GmpEvent, error)
}

// QueryError marks a failed warehouse call. These are always surfaced to the
// caller, unlike per-record value anomalies which the normalizer absorbs.
type QueryError struct {
	Table string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("warehouse query on %s failed: %v", e.Table, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

const (
	transfersQuery = `
		SELECT created_at, source_chain, destination_chain, recipient_address,
		       raw_amount, raw_price, raw_fee, id, asset
		FROM token_transfers
		WHERE status = 'executed'
		  AND sender_address IN (?)
		  AND toDate(created_at) >= toDate(?)
		  AND toDate(created_at) <= toDate(?)`

	callsQuery = `
		SELECT created_at, source_chain, destination_chain, sender_address,
		       raw_amount, raw_value_usd, raw_gas_used, raw_gas_price_usd,
		       raw_express_fee_usd, id, symbol
		FROM gmp_calls
		WHERE status = 'executed'
		  AND contract_address IN (?)
		  AND toDate(created_at) >= toDate(?)
		  AND toDate(created_at) <= toDate(?)`
)

// ClickHouseSource reads the two event tables, filtered to the monitored
// router contract addresses.
type ClickHouseSource struct {
	conn    clickhouse.Conn
	routers []string
	logger  *zap.Logger
}

// NewClickHouseSource wraps an open connection and the router address list.
func NewClickHouseSource(conn clickhouse.Conn, routers []string, logger *zap.Logger) *ClickHouseSource {
	return &ClickHouseSource{conn: conn, routers: routers, logger: logger}
}

// Transfers fetches raw token-transfer rows for [start, end]. The dynamic
// value columns come back as raw strings; coercion happens downstream.
func (s *ClickHouseSource) Transfers(ctx context.Context, start, end time.Time) ([]models.TransferEvent, error) {
	rows, err := s.conn.Query(ctx, transfersQuery, s.routers, start, end)
	if err != nil {
		return nil, &QueryError{Table: "token_transfers", Err: err}
	}
	defer rows.Close()

	var events []models.TransferEvent
	for rows.Next() {
		var (
			e                           models.TransferEvent
			rawAmount, rawPrice, rawFee *string
		)
		if err := rows.Scan(&e.CreatedAt, &e.SourceChain, &e.DestinationChain,
			&e.Recipient, &rawAmount, &rawPrice, &rawFee, &e.ID, &e.Asset); err != nil {
			return nil, &QueryError{Table: "token_transfers", Err: err}
		}
		e.RawAmount = dynamic(rawAmount)
		e.RawPrice = dynamic(rawPrice)
		e.RawFee = dynamic(rawFee)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Table: "token_transfers", Err: err}
	}

	s.logger.Debug("fetched transfers", zap.Int("rows", len(events)))
	return events, nil
}

// Calls fetches raw GMP call rows for [start, end].
func (s *ClickHouseSource) Calls(ctx context.Context, start, end time.Time) ([]models.GmpEvent, error) {
	rows, err := s.conn.Query(ctx, callsQuery, s.routers, start, end)
	if err != nil {
		return nil, &QueryError{Table: "gmp_calls", Err: err}
	}
	defer rows.Close()

	var events []models.GmpEvent
	for rows.Next() {
		var (
			e                               models.GmpEvent
			rawAmount, rawValue, rawGasUsed *string
			rawGasPrice, rawExpressFee      *string
		)
		if err := rows.Scan(&e.CreatedAt, &e.SourceChain, &e.DestinationChain,
			&e.Sender, &rawAmount, &rawValue, &rawGasUsed, &rawGasPrice,
			&rawExpressFee, &e.ID, &e.Symbol); err != nil {
			return nil, &QueryError{Table: "gmp_calls", Err: err}
		}
		e.RawAmount = dynamic(rawAmount)
		e.RawValueUSD = dynamic(rawValue)
		e.RawGasUsed = dynamic(rawGasUsed)
		e.RawGasPriceUSD = dynamic(rawGasPrice)
		e.RawExpressFeeUSD = dynamic(rawExpressFee)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Table: "gmp_calls", Err: err}
	}

	s.logger.Debug("fetched gmp calls", zap.Int("rows", len(events)))
	return events, nil
}

// dynamic converts a nullable raw column into the loosely typed form the
// coercion guard expects.
func dynamic(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
