package providers

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"StockPulse/internal/domain/repository"
	"StockPulse/pkg/util"
)

const avFixture = `{
  "Meta Data": {
    "1. Information": "Intraday (5min) open, high, low, close prices and volume",
    "2. Symbol": "AAPL"
  },
  "Time Series (5min)": {
    "2024-01-02 09:40:00": {"1. open": "186.00", "2. high": "186.50", "3. low": "185.80", "4. close": "186.20", "5. volume": "4200"},
    "2024-01-02 09:30:00": {"1. open": "185.00", "2. high": "185.40", "3. low": "184.90", "4. close": "185.30", "5. volume": "5000"},
    "2024-01-02 09:35:00": {"1. open": "185.30", "2. high": "186.10", "3. low": "185.20", "4. close": "186.00", "5. volume": "3100"}
  }
}`

func decodeRaw(t *testing.T, doc string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return raw
}

func TestParseIntradaySeries(t *testing.T) {
	bars, err := parseIntradaySeries(decodeRaw(t, avFixture), repository.IV5min, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Timestamp.Before(bars[i].Timestamp) {
			t.Fatalf("bars not ascending at %d", i)
		}
	}
	first := bars[0]
	if first.Open != 185.00 || first.High != 185.40 || first.Low != 184.90 || first.Close != 185.30 || first.Volume != 5000 {
		t.Fatalf("unexpected first bar %+v", first)
	}
	// Timestamps are parsed as US market time regardless of host zone.
	local := first.Timestamp.In(util.MarketLocation())
	if local.Hour() != 9 || local.Minute() != 30 {
		t.Fatalf("unexpected wall clock %v", local)
	}
}

func TestParseIntradaySeriesLimit(t *testing.T) {
	bars, err := parseIntradaySeries(decodeRaw(t, avFixture), repository.IV5min, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	// Keeps the most recent bars.
	if bars[1].Close != 186.20 {
		t.Fatalf("expected latest close 186.20, got %v", bars[1].Close)
	}
	if bars[0].Close != 186.00 {
		t.Fatalf("expected prior close 186.00, got %v", bars[0].Close)
	}
}

func TestParseIntradaySeriesErrorMessage(t *testing.T) {
	doc := `{"Error Message": "Invalid API call. Please retry or visit the documentation."}`
	_, err := parseIntradaySeries(decodeRaw(t, doc), repository.IV5min, 0)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "alpha vantage error") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseIntradaySeriesThrottleNote(t *testing.T) {
	doc := `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`
	_, err := parseIntradaySeries(decodeRaw(t, doc), repository.IV5min, 0)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "throttled") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseIntradaySeriesMissingSeries(t *testing.T) {
	doc := `{"Meta Data": {"2. Symbol": "AAPL"}}`
	_, err := parseIntradaySeries(decodeRaw(t, doc), repository.IV5min, 0)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "Time Series (5min)") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseIntradaySeriesIntervalKey(t *testing.T) {
	doc := strings.ReplaceAll(avFixture, "Time Series (5min)", "Time Series (15min)")
	bars, err := parseIntradaySeries(decodeRaw(t, doc), repository.IV15min, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
}

func TestToPriceBarBadNumber(t *testing.T) {
	b := avBar{Open: "1", High: "2", Low: "0.5", Close: "1.5", Volume: "lots"}
	if _, err := b.toPriceBar(time.Now()); err == nil {
		t.Fatalf("expected parse error")
	}
}
