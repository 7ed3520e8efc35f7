package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/pkg/config"
	"StockPulse/pkg/util"
)

// ErrRateLimited is returned when the client-side quota for an upstream API
// is exhausted. Callers should keep serving whatever data they already have.
var ErrRateLimited = errors.New("providers: upstream rate limit reached")

// Alpha Vantage free tier allows 5 requests per minute.
const (
	avQuotaKey      = "alphavantage"
	avQuotaCapacity = 5
	avQuotaRefill   = 5.0 / 60.0

	avTimestampLayout = "2006-01-02 15:04:05"
)

// AlphaVantageProvider fetches intraday price history from the Alpha Vantage
// TIME_SERIES_INTRADAY endpoint.
type AlphaVantageProvider struct {
	base       *HTTPProviderBase
	apiKey     string
	outputSize string
	rl         *ratelimit.Limiter
}

func NewAlphaVantageProvider(cfg *config.Config) *AlphaVantageProvider {
	av := cfg.Providers.MarketData.AlphaVantage
	return &AlphaVantageProvider{
		base:       NewHTTPProviderBase(av.BaseURL, cfg.Providers.MarketData.RequestTimeout),
		apiKey:     av.APIKey,
		outputSize: av.OutputSize,
		rl:         ratelimit.New(),
	}
}

func (p *AlphaVantageProvider) Name() string { return "alphavantage" }

// PriceHistory returns up to limit bars in ascending time order.
func (p *AlphaVantageProvider) PriceHistory(ctx context.Context, symbol string, interval repository.Interval, limit int) ([]models.PriceBar, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("alpha vantage api key not configured")
	}
	if !p.rl.Allow(avQuotaKey, avQuotaCapacity, avQuotaRefill) {
		return nil, ErrRateLimited
	}
	interval = repository.NormalizeInterval(string(interval))

	var raw map[string]json.RawMessage
	err := p.base.GetJSONWithRetry(ctx, "/query", map[string][]string{
		"function":   {"TIME_SERIES_INTRADAY"},
		"symbol":     {symbol},
		"interval":   {string(interval)},
		"outputsize": {p.outputSize},
		"apikey":     {p.apiKey},
	}, &raw, 3)
	if err != nil {
		return nil, err
	}
	return parseIntradaySeries(raw, interval, limit)
}

// avBar mirrors one entry of the "Time Series (<interval>)" object. All
// numeric fields arrive as strings.
type avBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

func parseIntradaySeries(raw map[string]json.RawMessage, interval repository.Interval, limit int) ([]models.PriceBar, error) {
	if msg, ok := raw["Error Message"]; ok {
		var s string
		_ = json.Unmarshal(msg, &s)
		return nil, fmt.Errorf("alpha vantage error: %s", s)
	}
	// "Note" and "Information" carry throttling notices instead of data.
	for _, key := range []string{"Note", "Information"} {
		if msg, ok := raw[key]; ok {
			var s string
			_ = json.Unmarshal(msg, &s)
			return nil, fmt.Errorf("alpha vantage throttled: %s", s)
		}
	}

	seriesKey := fmt.Sprintf("Time Series (%s)", interval)
	rawSeries, ok := raw[seriesKey]
	if !ok {
		return nil, fmt.Errorf("alpha vantage response missing %q", seriesKey)
	}
	var series map[string]avBar
	if err := json.Unmarshal(rawSeries, &series); err != nil {
		return nil, fmt.Errorf("decode series: %w", err)
	}

	// Keys are "YYYY-MM-DD HH:MM:SS", so a lexical sort is chronological.
	stamps := make([]string, 0, len(series))
	for ts := range series {
		stamps = append(stamps, ts)
	}
	sort.Strings(stamps)
	if limit > 0 && len(stamps) > limit {
		stamps = stamps[len(stamps)-limit:]
	}

	bars := make([]models.PriceBar, 0, len(stamps))
	for _, ts := range stamps {
		// Intraday timestamps carry no zone offset and are US market time.
		t, err := time.ParseInLocation(avTimestampLayout, ts, util.MarketLocation())
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		bar, err := series[ts].toPriceBar(t.UTC())
		if err != nil {
			return nil, fmt.Errorf("bar %s: %w", ts, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func (b avBar) toPriceBar(t time.Time) (models.PriceBar, error) {
	bar := models.PriceBar{Timestamp: t}
	var err error
	if bar.Open, err = strconv.ParseFloat(b.Open, 64); err != nil {
		return bar, fmt.Errorf("parse open %q: %w", b.Open, err)
	}
	if bar.High, err = strconv.ParseFloat(b.High, 64); err != nil {
		return bar, fmt.Errorf("parse high %q: %w", b.High, err)
	}
	if bar.Low, err = strconv.ParseFloat(b.Low, 64); err != nil {
		return bar, fmt.Errorf("parse low %q: %w", b.Low, err)
	}
	if bar.Close, err = strconv.ParseFloat(b.Close, 64); err != nil {
		return bar, fmt.Errorf("parse close %q: %w", b.Close, err)
	}
	if bar.Volume, err = strconv.ParseFloat(b.Volume, 64); err != nil {
		return bar, fmt.Errorf("parse volume %q: %w", b.Volume, err)
	}
	return bar, nil
}

var _ domsvc.MarketDataProvider = (*AlphaVantageProvider)(nil)
