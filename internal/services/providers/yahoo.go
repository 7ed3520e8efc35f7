package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
)

// YahooProvider fetches intraday price history through the Yahoo Finance
// chart API. It needs no API key, which makes it the fallback market-data
// source when no Alpha Vantage key is configured.
type YahooProvider struct {
	lookback time.Duration
	now      func() time.Time
}

func NewYahooProvider() *YahooProvider {
	// Yahoo serves intraday bars only for a few trailing days.
	return &YahooProvider{lookback: 5 * 24 * time.Hour, now: time.Now}
}

func (p *YahooProvider) Name() string { return "yahoo" }

func yahooInterval(iv repository.Interval) datetime.Interval {
	switch repository.NormalizeInterval(string(iv)) {
	case repository.IV1min:
		return datetime.OneMin
	case repository.IV15min:
		return datetime.FifteenMins
	case repository.IV30min:
		return datetime.ThirtyMins
	case repository.IV60min:
		return datetime.OneHour
	default:
		return datetime.FiveMins
	}
}

// PriceHistory returns up to limit bars in ascending time order.
func (p *YahooProvider) PriceHistory(ctx context.Context, symbol string, interval repository.Interval, limit int) ([]models.PriceBar, error) {
	// chart.Get has no context plumbing; honor cancellation at the boundary.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := p.now()
	start := end.Add(-p.lookback)

	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Interval: yahooInterval(interval),
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
	})

	var bars []models.PriceBar
	for iter.Next() {
		b := iter.Bar()
		open, _ := b.Open.Float64()
		high, _ := b.High.Float64()
		low, _ := b.Low.Float64()
		closep, _ := b.Close.Float64()
		bars = append(bars, models.PriceBar{
			Timestamp: time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closep,
			Volume:    float64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}

var _ domsvc.MarketDataProvider = (*YahooProvider)(nil)
