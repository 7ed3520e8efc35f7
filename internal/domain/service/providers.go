package service

import (
	"context"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
)

// MarketDataProvider retrieves intraday price history for a symbol,
// ordered chronologically, most recent last.
type MarketDataProvider interface {
	Name() string
	PriceHistory(ctx context.Context, symbol string, interval repository.Interval, limit int) ([]models.PriceBar, error)
}

// NewsProvider retrieves recent headlines for a symbol, newest first.
type NewsProvider interface {
	Name() string
	LatestNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error)
}

// ProfileProvider retrieves the static company record for a symbol.
type ProfileProvider interface {
	CompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)
}
