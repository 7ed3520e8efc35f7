package models

import "time"

// Signal actions.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"
)

// PriceMetrics holds the trend view of a price history.
type PriceMetrics struct {
	LatestClose   float64
	PriceChange   float64 // (latest - previous) / previous
	MA5           float64
	MA20          float64
	TrendStrength float64 // (ma5 - ma20) / ma20
}

// SentimentMetrics carries the aggregate news polarity plus the two
// derived scalars the scorer uses.
type SentimentMetrics struct {
	Compound float64
	Positive float64
	Negative float64
	Neutral  float64
	Strength float64 // |compound|
	Bias     float64 // positive - negative
}

// VolumeMetrics compares the latest volume against its trailing average.
type VolumeMetrics struct {
	Current float64
	Average float64 // 20-period mean
	Ratio   float64 // current / average
}

// VolatilityMetrics holds sample deviations of percentage returns.
type VolatilityMetrics struct {
	Overall float64
	Recent  float64 // last 20 returns
	Trend   float64 // recent / overall, 0 when overall is 0
}

// SignalMetrics bundles the four metric groups computed per invocation.
// Ephemeral: recomputed fresh for every signal, never persisted alone.
type SignalMetrics struct {
	Price      PriceMetrics
	Sentiment  SentimentMetrics
	Volume     VolumeMetrics
	Volatility VolatilityMetrics
}

// TradingSignal is the generator output handed to the delivery layers.
// Note: no transport (json/http) concerns here.
type TradingSignal struct {
	Symbol      string
	Action      string // BUY | SELL | HOLD
	Confidence  float64
	Score       float64
	Reasoning   []string
	Metrics     SignalMetrics
	GeneratedAt time.Time
}
