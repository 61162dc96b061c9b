package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bridgewatch/bridge-metrics/internal/models"
)

func TestNormalizeTransfer(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	t.Run("maps scalar amounts and lowercases chains", func(t *testing.T) {
		e := NormalizeTransfer(models.TransferEvent{
			CreatedAt:        createdAt,
			SourceChain:      str("Ethereum"),
			DestinationChain: str("ARBITRUM"),
			Recipient:        "0xrecipient",
			RawAmount:        "10",
			RawPrice:         "2",
			RawFee:           "0.5",
			ID:               "tx-1",
			Asset:            str("USDC"),
		})

		assert.Equal(t, "ethereum", e.SourceChain)
		assert.Equal(t, "arbitrum", e.DestinationChain)
		assert.Equal(t, "0xrecipient", e.User)
		assert.Equal(t, models.ServiceTokenTransfer, e.Service)
		assert.Equal(t, "USDC", e.Asset)
		require.NotNil(t, e.AmountUSD)
		assert.InDelta(t, 20.0, *e.AmountUSD, 1e-9)
		require.NotNil(t, e.FeeUSD)
		assert.InDelta(t, 0.5, *e.FeeUSD, 1e-9)
	})

	t.Run("nil amount when either factor is non-scalar", func(t *testing.T) {
		e := NormalizeTransfer(models.TransferEvent{
			CreatedAt: createdAt,
			Recipient: "0xrecipient",
			RawAmount: []any{"10"},
			RawPrice:  "2",
			ID:        "tx-2",
		})
		assert.Nil(t, e.AmountUSD)

		e = NormalizeTransfer(models.TransferEvent{
			CreatedAt: createdAt,
			Recipient: "0xrecipient",
			RawAmount: "10",
			RawPrice:  map[string]any{"usd": 2},
			ID:        "tx-3",
		})
		assert.Nil(t, e.AmountUSD)
	})

	t.Run("missing chains become empty labels", func(t *testing.T) {
		e := NormalizeTransfer(models.TransferEvent{
			CreatedAt: createdAt,
			Recipient: "0xrecipient",
			ID:        "tx-4",
		})
		assert.Empty(t, e.SourceChain)
		assert.Empty(t, e.DestinationChain)
		assert.Empty(t, e.Asset)
	})
}

func TestNormalizeGmp(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	t.Run("keeps chain casing and uses the sender", func(t *testing.T) {
		e := NormalizeGmp(models.GmpEvent{
			CreatedAt:        createdAt,
			SourceChain:      str("Ethereum"),
			DestinationChain: str("Polygon"),
			Sender:           "0xsender",
			RawValueUSD:      "5",
			ID:               "gmp-1",
			Symbol:           str("axlUSDC"),
		})

		assert.Equal(t, "Ethereum", e.SourceChain)
		assert.Equal(t, "Polygon", e.DestinationChain)
		assert.Equal(t, "0xsender", e.User)
		assert.Equal(t, models.ServiceGMP, e.Service)
		require.NotNil(t, e.AmountUSD)
		assert.InDelta(t, 5.0, *e.AmountUSD, 1e-9)
	})

	t.Run("fee prefers gas product", func(t *testing.T) {
		e := NormalizeGmp(models.GmpEvent{
			CreatedAt:        createdAt,
			Sender:           "0xsender",
			RawGasUsed:       "100000",
			RawGasPriceUSD:   "0.00001",
			RawExpressFeeUSD: "9.99",
			ID:               "gmp-2",
		})
		require.NotNil(t, e.FeeUSD)
		assert.InDelta(t, 1.0, *e.FeeUSD, 1e-9)
	})

	t.Run("fee falls back to express fee", func(t *testing.T) {
		e := NormalizeGmp(models.GmpEvent{
			CreatedAt:        createdAt,
			Sender:           "0xsender",
			RawGasUsed:       []any{"100000"},
			RawGasPriceUSD:   "0.00001",
			RawExpressFeeUSD: "9.99",
			ID:               "gmp-3",
		})
		require.NotNil(t, e.FeeUSD)
		assert.InDelta(t, 9.99, *e.FeeUSD, 1e-9)
	})

	t.Run("fee nil when both tiers are missing", func(t *testing.T) {
		e := NormalizeGmp(models.GmpEvent{
			CreatedAt:  createdAt,
			Sender:     "0xsender",
			RawGasUsed: "100000",
			ID:         "gmp-4",
		})
		assert.Nil(t, e.FeeUSD)
	})
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	events := Normalize(
		[]models.TransferEvent{{CreatedAt: createdAt, Recipient: "a", ID: "t1"}},
		[]models.GmpEvent{{CreatedAt: createdAt, Sender: "b", ID: "g1"}},
	)

	require.Len(t, events, 2)
	assert.Equal(t, models.ServiceTokenTransfer, events[0].Service)
	assert.Equal(t, models.ServiceGMP, events[1].Service)
}

func str(s string) *string {
	return &s
}
