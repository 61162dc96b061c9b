package models

import "time"

// Service identifies which bridge pipeline reported an event.
type Service string

const (
	ServiceTokenTransfer Service = "token_transfer"
	ServiceGMP           Service = "gmp"
)

// Timeframe selects the calendar bucket used for time-series grouping.
type Timeframe string

const (
	TimeframeDay   Timeframe = "day"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
)

// Valid reports whether tf is one of the supported timeframes.
func (tf Timeframe) Valid() bool {
	switch tf {
	case TimeframeDay, TimeframeWeek, TimeframeMonth:
		return true
	}
	return false
}

// Params is the parameter tuple shared by every chart operation.
// Start and End are inclusive calendar dates.
type Params struct {
	Timeframe Timeframe
	Start     time.Time
	End       time.Time
}

// TransferEvent is a raw token-transfer row as reported by the transfer
// pipeline. The Raw* fields are loosely typed upstream: a scalar, an array,
// an object, or absent.
type TransferEvent struct {
	CreatedAt        time.Time
	SourceChain      *string
	DestinationChain *string
	Recipient        string
	RawAmount        any
	RawPrice         any
	RawFee           any
	ID               string
	Asset            *string
}

// GmpEvent is a raw general-message-passing call row. Chain names here follow
// the GMP pipeline's own casing convention.
type GmpEvent struct {
	CreatedAt        time.Time
	SourceChain      *string
	DestinationChain *string
	Sender           string
	RawAmount        any
	RawValueUSD      any
	RawGasUsed       any
	RawGasPriceUSD   any
	RawExpressFeeUSD any
	ID               string
	Symbol           *string
}

// NormalizedEvent is the unified shape consumed by all aggregations.
// AmountUSD and FeeUSD are nil whenever the raw source values were non-scalar
// or non-numeric; they are never silently zeroed.
type NormalizedEvent struct {
	CreatedAt        time.Time
	SourceChain      string
	DestinationChain string
	User             string
	AmountUSD        *float64
	FeeUSD           *float64
	ID               string
	Service          Service
	Asset            string
}

// MetricRow is one grouped result: a time bucket, a chain, or a path.
type MetricRow struct {
	Group         string  `json:"group"`
	TransferCount uint64  `json:"transfer_count"`
	UserCount     uint64  `json:"user_count"`
	VolumeUSD     float64 `json:"volume_usd"`
}

// CohortRow is one ordered cohort bucket and its distinct-user count.
type CohortRow struct {
	Cohort    string `json:"cohort"`
	UserCount uint64 `json:"user_count"`
}

// NewUserPoint is one time bucket of the new-users series.
type NewUserPoint struct {
	Bucket             time.Time `json:"bucket"`
	NewUsers           uint64    `json:"new_users"`
	CumulativeNewUsers uint64    `json:"cumulative_new_users"`
}
