// Package normalizer unifies the two bridge event schemas into the single
// shape consumed by the aggregation engine.
package normalizer

import (
	"strings"

	"github.com/bridgewatch/bridge-metrics/internal/models"
)

// NormalizeTransfer maps a raw token-transfer row to a NormalizedEvent.
// Chain names from the transfer pipeline are lowercased; the GMP pipeline's
// casing is left alone (see NormalizeGmp), matching how each pipeline stores
// chain names upstream.
func NormalizeTransfer(e models.TransferEvent) models.NormalizedEvent {
	return models.NormalizedEvent{
		CreatedAt:        e.CreatedAt,
		SourceChain:      strings.ToLower(deref(e.SourceChain)),
		DestinationChain: strings.ToLower(deref(e.DestinationChain)),
		User:             e.Recipient,
		AmountUSD:        Product(Float(e.RawAmount), Float(e.RawPrice)),
		FeeUSD:           Float(e.RawFee),
		ID:               e.ID,
		Service:          models.ServiceTokenTransfer,
		Asset:            deref(e.Asset),
	}
}

// NormalizeGmp maps a raw GMP call row to a NormalizedEvent. The user is the
// transaction sender, and the fee falls back from gas_used×gas_price to the
// separately reported express fee.
func NormalizeGmp(e models.GmpEvent) models.NormalizedEvent {
	return models.NormalizedEvent{
		CreatedAt:        e.CreatedAt,
		SourceChain:      deref(e.SourceChain),
		DestinationChain: deref(e.DestinationChain),
		User:             e.Sender,
		AmountUSD:        Float(e.RawValueUSD),
		FeeUSD:           gmpFee(e),
		ID:               e.ID,
		Service:          models.ServiceGMP,
		Asset:            deref(e.Symbol),
	}
}

// Normalize unifies both raw slices into one event stream.
func Normalize(transfers []models.TransferEvent, calls []models.GmpEvent) []models.NormalizedEvent {
	out := make([]models.NormalizedEvent, 0, len(transfers)+len(calls))
	for _, t := range transfers {
		out = append(out, NormalizeTransfer(t))
	}
	for _, c := range calls {
		out = append(out, NormalizeGmp(c))
	}
	return out
}

// gmpFee prefers gas_used × gas_price_usd; if either factor is missing or
// non-scalar it falls back to express_fee_usd, and nil after that.
func gmpFee(e models.GmpEvent) *float64 {
	if fee := Product(Float(e.RawGasUsed), Float(e.RawGasPriceUSD)); fee != nil {
		return fee
	}
	return Float(e.RawExpressFeeUSD)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
