package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/cache"
)

func newTestService(market *fakeMarket, news *fakeNews, gen *fakeGenerator, m *fakeMetrics) *SignalService {
	analyzer := &fakeAnalyzer{summary: models.SentimentSummary{
		Compound: 0.5,
		Positive: 0.6,
		Negative: 0.1,
		Neutral:  0.3,
	}}
	return NewSignalService(market, news, analyzer, gen, m, 100, 10)
}

func TestSignalServiceRefresh(t *testing.T) {
	market := &fakeMarket{bars: testBars(25)}
	news := &fakeNews{articles: []models.NewsArticle{
		{Title: "Apple surges on earnings"},
		{Title: "Analysts raise targets"},
	}}
	gen := &fakeGenerator{}
	m := newFakeMetrics()
	svc := newTestService(market, news, gen, m)

	sig, err := svc.Refresh(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Symbol != "AAPL" {
		t.Fatalf("unexpected symbol %q", sig.Symbol)
	}
	if sig.Action != models.ActionBuy {
		t.Fatalf("unexpected action %q", sig.Action)
	}

	got := gen.lastSummary()
	if got == nil {
		t.Fatalf("generator never called")
	}
	if got.Compound != 0.5 {
		t.Fatalf("summary not passed through, compound = %v", got.Compound)
	}
	if got.ArticleCount != 2 {
		t.Fatalf("unexpected article count %d", got.ArticleCount)
	}
	if m.signalCount(models.ActionBuy) != 1 {
		t.Fatalf("signal not recorded")
	}
}

func TestSignalServiceRefreshNewsDegraded(t *testing.T) {
	market := &fakeMarket{bars: testBars(25)}
	news := &fakeNews{err: errors.New("newsapi down")}
	gen := &fakeGenerator{}
	m := newFakeMetrics()
	svc := newTestService(market, news, gen, m)

	sig, err := svc.Refresh(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("news outage should not fail the signal: %v", err)
	}
	if sig == nil {
		t.Fatalf("expected signal")
	}

	got := gen.lastSummary()
	if got == nil {
		t.Fatalf("generator never called")
	}
	if got.Compound != 0 || got.ArticleCount != 0 {
		t.Fatalf("expected zero summary, got %+v", got)
	}
	if m.errCount("news_sentiment") != 1 {
		t.Fatalf("degradation not recorded")
	}
}

func TestSignalServiceRefreshPriceFatal(t *testing.T) {
	market := &fakeMarket{err: errors.New("rate limited")}
	news := &fakeNews{}
	gen := &fakeGenerator{}
	m := newFakeMetrics()
	svc := newTestService(market, news, gen, m)

	if _, err := svc.Refresh(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected error")
	}
	if m.errCount("price_history") != 1 {
		t.Fatalf("price failure not recorded")
	}
}

func TestSignalServiceRefreshGenerateError(t *testing.T) {
	market := &fakeMarket{bars: testBars(5)}
	news := &fakeNews{}
	gen := &fakeGenerator{err: errors.New("insufficient history")}
	m := newFakeMetrics()
	svc := newTestService(market, news, gen, m)

	if _, err := svc.Refresh(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected error")
	}
	if m.errCount("generate") != 1 {
		t.Fatalf("generate failure not recorded")
	}
}

func TestSignalServiceSignalCacheHit(t *testing.T) {
	market := &fakeMarket{bars: testBars(25)}
	news := &fakeNews{}
	gen := &fakeGenerator{}
	m := newFakeMetrics()
	svc := newTestService(market, news, gen, m)
	svc.SetCache(cache.NewMemoryCache(), time.Minute, time.Minute)

	ctx := context.Background()
	first, err := svc.Signal(ctx, "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Signal(ctx, "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if market.calls.Load() != 1 {
		t.Fatalf("expected single provider call, got %d", market.calls.Load())
	}
	if first.Symbol != second.Symbol || first.Score != second.Score {
		t.Fatalf("cached signal differs: %+v vs %+v", first, second)
	}
}

func TestSignalServiceRefreshBypassesCache(t *testing.T) {
	market := &fakeMarket{bars: testBars(25)}
	news := &fakeNews{}
	gen := &fakeGenerator{}
	m := newFakeMetrics()
	svc := newTestService(market, news, gen, m)
	svc.SetCache(cache.NewMemoryCache(), time.Minute, time.Minute)

	ctx := context.Background()
	if _, err := svc.Signal(ctx, "AAPL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Refresh(ctx, "AAPL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if market.calls.Load() != 2 {
		t.Fatalf("refresh should regenerate, got %d calls", market.calls.Load())
	}
}

func TestSignalServiceSentiment(t *testing.T) {
	news := &fakeNews{articles: []models.NewsArticle{
		{Title: "Stock rallies"},
		{Title: "Profit beats estimates"},
		{Title: "New product launch"},
	}}
	svc := newTestService(&fakeMarket{}, news, &fakeGenerator{}, newFakeMetrics())

	ns, err := svc.Sentiment(context.Background(), "AAPL", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ns.Symbol != "AAPL" {
		t.Fatalf("unexpected symbol %q", ns.Symbol)
	}
	if ns.Summary.ArticleCount != 3 {
		t.Fatalf("unexpected article count %d", ns.Summary.ArticleCount)
	}
	if len(ns.Articles) != 3 {
		t.Fatalf("unexpected articles %d", len(ns.Articles))
	}
	if ns.AnalyzedAt.IsZero() {
		t.Fatalf("analyzed_at not set")
	}
}

func TestSignalServiceEmptySymbol(t *testing.T) {
	svc := newTestService(&fakeMarket{}, &fakeNews{}, &fakeGenerator{}, newFakeMetrics())
	if _, err := svc.Signal(context.Background(), ""); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := svc.Sentiment(context.Background(), "", 5); err == nil {
		t.Fatalf("expected error")
	}
}
