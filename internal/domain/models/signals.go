package models

import "time"

// SignalBoard represents one refresh of the multi-symbol signals tab.
// Symbols that failed end up in Errors instead of Signals, so one bad
// provider response never blanks the whole board.
type SignalBoard struct {
	Symbols     []string
	GeneratedAt time.Time
	Signals     []*TradingSignal
	Errors      map[string]string
}
