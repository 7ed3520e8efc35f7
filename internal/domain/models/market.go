package models

import "time"

// PriceBar represents one OHLCV record of a symbol's price history.
// Histories are ordered chronologically, most recent last.
type PriceBar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// CompanyProfile is the static company record shown in the dashboard header.
type CompanyProfile struct {
	Symbol    string
	Name      string
	Exchange  string
	Industry  string
	MarketCap float64 // millions, as reported by the provider
	Currency  string
	Country   string
	IPO       string
	WebURL    string
	Logo      string
}

// MarketStatus reports whether the US cash session is open.
type MarketStatus struct {
	Open      bool
	CheckedAt time.Time
}
