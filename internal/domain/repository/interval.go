package repository

// Interval represents an intraday bar resolution as the market-data
// providers spell it.
type Interval string

const (
	IV1min  Interval = "1min"
	IV5min  Interval = "5min"
	IV15min Interval = "15min"
	IV30min Interval = "30min"
	IV60min Interval = "60min"
)

// IsValidInterval returns true if iv is a supported bar resolution.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case IV1min, IV5min, IV15min, IV30min, IV60min:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default bar resolution.
func DefaultInterval() Interval { return IV5min }

// NormalizeInterval converts a raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}
