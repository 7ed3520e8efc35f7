package util

import (
	"strconv"
	"sync"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

var (
	marketLocOnce sync.Once
	marketLoc     *time.Location
)

// MarketLocation returns the US equity market time zone, falling back to UTC
// when tzdata is unavailable.
func MarketLocation() *time.Location {
	marketLocOnce.Do(func() {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			loc = time.UTC
		}
		marketLoc = loc
	})
	return marketLoc
}

// IsMarketHours reports whether t falls inside the US cash session,
// approximated as 09:00-16:00 Eastern on weekdays.
func IsMarketHours(t time.Time) bool {
	et := t.In(MarketLocation())
	switch et.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	h := et.Hour()
	return h >= 9 && h < 16
}
