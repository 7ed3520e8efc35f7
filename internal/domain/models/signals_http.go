package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type SignalRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type SignalBoardRequest struct {
	Symbols string `query:"symbols" json:"symbols"` // CSV; falls back to the configured watchlist
}

type SentimentRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Limit  int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=50"`
}

type CandlesRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Interval string `query:"interval" json:"interval" default:"5min" validate:"oneof=1min 5min 15min 30min 60min"`
	Limit    int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type NewsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Limit  int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=50"`
}

type ProfileRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type SignalHistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Limit  int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}
