package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestIsMarketHours(t *testing.T) {
	loc := MarketLocation()
	cases := []struct {
		t    time.Time
		want bool
	}{
		// Tuesday mid-session
		{time.Date(2024, 10, 8, 10, 0, 0, 0, loc), true},
		// Tuesday pre-open and post-close
		{time.Date(2024, 10, 8, 8, 59, 0, 0, loc), false},
		{time.Date(2024, 10, 8, 16, 0, 0, 0, loc), false},
		// Boundary open hour counts
		{time.Date(2024, 10, 8, 9, 0, 0, 0, loc), true},
		// Weekend
		{time.Date(2024, 10, 12, 10, 0, 0, 0, loc), false},
		{time.Date(2024, 10, 13, 10, 0, 0, 0, loc), false},
	}
	for _, c := range cases {
		if got := IsMarketHours(c.t); got != c.want {
			t.Fatalf("IsMarketHours(%v): got %v want %v", c.t, got, c.want)
		}
	}
}
