package providers

import (
	"context"
	"fmt"

	"StockPulse/internal/domain/models"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/pkg/config"
)

// FinnhubProvider fetches company profiles from the Finnhub REST API.
type FinnhubProvider struct {
	base   *HTTPProviderBase
	apiKey string
}

func NewFinnhubProvider(cfg *config.Config) *FinnhubProvider {
	return &FinnhubProvider{
		base:   NewHTTPProviderBase(cfg.Providers.Finnhub.BaseURL, cfg.Providers.Finnhub.RequestTimeout),
		apiKey: cfg.Providers.Finnhub.APIKey,
	}
}

type finnhubProfile struct {
	Ticker               string  `json:"ticker"`
	Name                 string  `json:"name"`
	Exchange             string  `json:"exchange"`
	Industry             string  `json:"finnhubIndustry"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	Currency             string  `json:"currency"`
	Country              string  `json:"country"`
	IPO                  string  `json:"ipo"`
	WebURL               string  `json:"weburl"`
	Logo                 string  `json:"logo"`
}

// CompanyProfile returns the static company record for symbol. Finnhub answers
// unknown symbols with an empty object rather than an error status.
func (p *FinnhubProvider) CompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("finnhub api key not configured")
	}
	var fp finnhubProfile
	err := p.base.GetJSON(ctx, "/stock/profile2", map[string][]string{
		"symbol": {symbol},
		"token":  {p.apiKey},
	}, &fp)
	if err != nil {
		return nil, err
	}
	if fp.Name == "" && fp.Ticker == "" {
		return nil, fmt.Errorf("finnhub: no profile for %q", symbol)
	}
	return &models.CompanyProfile{
		Symbol:    symbol,
		Name:      fp.Name,
		Exchange:  fp.Exchange,
		Industry:  fp.Industry,
		MarketCap: fp.MarketCapitalization,
		Currency:  fp.Currency,
		Country:   fp.Country,
		IPO:       fp.IPO,
		WebURL:    fp.WebURL,
		Logo:      fp.Logo,
	}, nil
}

var _ domsvc.ProfileProvider = (*FinnhubProvider)(nil)
