package providers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/pkg/config"
	"StockPulse/pkg/util"
)

// NewsAPIProvider fetches recent headlines from the NewsAPI /v2/everything
// endpoint, querying "<symbol> stock" over a trailing window.
type NewsAPIProvider struct {
	base         *HTTPProviderBase
	apiKey       string
	lookbackDays int
	now          func() time.Time // injectable for tests
}

func NewNewsAPIProvider(cfg *config.Config) *NewsAPIProvider {
	na := cfg.Providers.News.NewsAPI
	return &NewsAPIProvider{
		base:         NewHTTPProviderBase(na.BaseURL, cfg.Providers.News.RequestTimeout),
		apiKey:       na.APIKey,
		lookbackDays: na.LookbackDays,
		now:          time.Now,
	}
}

func (p *NewsAPIProvider) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// LatestNews returns up to limit articles for symbol, newest first. Articles
// without a description are dropped since there is nothing to score.
func (p *NewsAPIProvider) LatestNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("newsapi key not configured")
	}
	lookback := p.lookbackDays
	if lookback <= 0 {
		lookback = 7
	}
	from := p.now().AddDate(0, 0, -lookback).Format("2006-01-02")

	var resp newsAPIResponse
	err := p.base.GetJSONWithRetry(ctx, "/v2/everything", map[string][]string{
		"q":        {symbol + " stock"},
		"language": {"en"},
		"sortBy":   {"publishedAt"},
		"pageSize": {strconv.Itoa(limit)},
		"from":     {from},
		"apiKey":   {p.apiKey},
	}, &resp, 3)
	if err != nil {
		return nil, err
	}
	return collectNewsAPIArticles(resp, limit)
}

func collectNewsAPIArticles(resp newsAPIResponse, limit int) ([]models.NewsArticle, error) {
	if resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi error %s: %s", resp.Code, resp.Message)
	}
	articles := make([]models.NewsArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.Description == "" {
			continue
		}
		publishedAt, _ := util.ParseTime(a.PublishedAt)
		articles = append(articles, models.NewsArticle{
			Title:       a.Title,
			Content:     a.Description,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: publishedAt,
		})
		if limit > 0 && len(articles) >= limit {
			break
		}
	}
	return articles, nil
}

var _ domsvc.NewsProvider = (*NewsAPIProvider)(nil)
