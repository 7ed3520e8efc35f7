package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"StockPulse/internal/domain/models"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/pkg/config"
	applogger "StockPulse/pkg/logger"
)

const scrapeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// scrapeSelectors pins the CSS selectors for one news site. They live here
// rather than inline so a markup change is a one-line fix.
type scrapeSelectors struct {
	Container string
	Title     string
	Link      string
	Source    string
	Time      string
}

type scrapeSource struct {
	Name       string
	BaseURL    string
	SearchPath string // {symbol} placeholder
	Selectors  scrapeSelectors
}

func googleNewsSource() scrapeSource {
	return scrapeSource{
		Name:       "Google News",
		BaseURL:    "https://news.google.com",
		SearchPath: "/search?q={symbol}+stock&hl=en-US&gl=US&ceid=US:en",
		Selectors: scrapeSelectors{
			Container: "article",
			Title:     "a.JtKRv",
			Link:      "a.JtKRv",
			Source:    ".vr1PYe",
			Time:      "time",
		},
	}
}

// GoogleNewsProvider scrapes headline listings from Google News search. It is
// the keyless fallback when no NewsAPI key is configured. The listing page
// carries titles only, so Content stays empty and scoring runs on headlines.
type GoogleNewsProvider struct {
	source  scrapeSource
	timeout time.Duration
	l       *applogger.Logger
}

func NewGoogleNewsProvider(cfg *config.Config) *GoogleNewsProvider {
	timeout := cfg.Providers.News.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GoogleNewsProvider{source: googleNewsSource(), timeout: timeout}
}

// SetLogger injects a structured logger.
func (p *GoogleNewsProvider) SetLogger(l *applogger.Logger) { p.l = l }

func (p *GoogleNewsProvider) Name() string { return "googlenews" }

// LatestNews scrapes up to limit headlines for symbol, listing order.
func (p *GoogleNewsProvider) LatestNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error) {
	// colly has no context plumbing; honor cancellation at the boundary.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src := p.source

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(src.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(p.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", scrapeUserAgent)
	})

	var articles []models.NewsArticle
	c.OnHTML(src.Selectors.Container, func(e *colly.HTMLElement) {
		if limit > 0 && len(articles) >= limit {
			return
		}
		title := strings.TrimSpace(e.ChildText(src.Selectors.Title))
		if title == "" {
			return
		}
		link := e.ChildAttr(src.Selectors.Link, "href")
		if strings.HasPrefix(link, ".") {
			link = src.BaseURL + strings.TrimPrefix(link, ".")
		}
		source := strings.TrimSpace(e.ChildText(src.Selectors.Source))
		if source == "" {
			source = src.Name
		}
		var publishedAt time.Time
		if dt := e.ChildAttr(src.Selectors.Time, "datetime"); dt != "" {
			if t, err := time.Parse(time.RFC3339, dt); err == nil {
				publishedAt = t
			}
		}
		articles = append(articles, models.NewsArticle{
			Title:       title,
			Source:      source,
			URL:         link,
			PublishedAt: publishedAt,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		if p.l != nil {
			p.l.Warn("googlenews scrape_error",
				applogger.String("url", r.Request.URL.String()),
				applogger.Error(err))
		}
	})

	searchURL := src.BaseURL + strings.ReplaceAll(src.SearchPath, "{symbol}", url.QueryEscape(symbol))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", searchURL, err)
	}
	c.Wait()

	return articles, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

var _ domsvc.NewsProvider = (*GoogleNewsProvider)(nil)
