package usecase

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	pkgcache "StockPulse/pkg/cache"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// MarketDataUseCase provides business logic for the chart and company views.
type MarketDataUseCase struct {
	market  domsvc.MarketDataProvider
	profile domsvc.ProfileProvider

	cache      pkgcache.Service
	barsTTL    time.Duration
	profileTTL time.Duration

	now func() time.Time
	l   *applogger.Logger
}

func NewMarketDataUseCase(market domsvc.MarketDataProvider, profile domsvc.ProfileProvider) *MarketDataUseCase {
	return &MarketDataUseCase{market: market, profile: profile, now: time.Now}
}

// SetCache enables read-through caching of bars and profiles.
func (uc *MarketDataUseCase) SetCache(c pkgcache.Service, barsTTL, profileTTL time.Duration) {
	uc.cache = c
	uc.barsTTL = barsTTL
	uc.profileTTL = profileTTL
}

// SetLogger injects a structured logger.
func (uc *MarketDataUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

type GetCandlesParams struct {
	Symbol   string
	Interval domrepo.Interval
	Limit    int
}

type GetCandlesResult struct {
	Symbol   string
	Interval string
	Count    int
	Bars     []models.PriceBar
}

func (uc *MarketDataUseCase) GetCandles(ctx context.Context, p GetCandlesParams) (*GetCandlesResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.Limit <= 0 {
		p.Limit = 100
	}
	if p.Limit > 1000 {
		p.Limit = 1000
	}
	iv := domrepo.NormalizeInterval(string(p.Interval))

	key := pkgcache.GenerateKeyWithParams("bars", p.Symbol, string(iv), p.Limit)
	if uc.cache != nil {
		var cached []models.PriceBar
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			return newCandlesResult(p.Symbol, iv, cached), nil
		}
	}

	bars, err := uc.market.PriceHistory(ctx, p.Symbol, iv, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("get candles: %w", err)
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, bars, uc.barsTTL); err != nil && uc.l != nil {
			uc.l.Warn("candles cache_set_error", applogger.Error(err))
		}
	}
	return newCandlesResult(p.Symbol, iv, bars), nil
}

func newCandlesResult(symbol string, iv domrepo.Interval, bars []models.PriceBar) *GetCandlesResult {
	return &GetCandlesResult{
		Symbol:   symbol,
		Interval: string(iv),
		Count:    len(bars),
		Bars:     bars,
	}
}

// Profile returns the company record. Profiles rarely change, so they cache
// under a long TTL.
func (uc *MarketDataUseCase) Profile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	key := pkgcache.GenerateKey("profile", symbol)
	if uc.cache != nil {
		var cached models.CompanyProfile
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	prof, err := uc.profile.CompanyProfile(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("company profile: %w", err)
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, prof, uc.profileTTL); err != nil && uc.l != nil {
			uc.l.Warn("profile cache_set_error", applogger.Error(err))
		}
	}
	return prof, nil
}

// Status reports whether the US cash session is currently open.
func (uc *MarketDataUseCase) Status() models.MarketStatus {
	now := uc.now()
	return models.MarketStatus{Open: util.IsMarketHours(now), CheckedAt: now.UTC()}
}
