package usecase

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/services/sentiment"
	pkgcache "StockPulse/pkg/cache"
	applogger "StockPulse/pkg/logger"
)

// SignalService orchestrates one symbol's end-to-end generation: price
// history and headlines in, scored trading signal out.
type SignalService struct {
	market   domsvc.MarketDataProvider
	news     domsvc.NewsProvider
	analyzer domsvc.SentimentAnalyzer
	gen      domsvc.SignalGenerator
	metrics  domrepo.Metrics

	historyBars int
	newsLimit   int

	cache     pkgcache.Service
	signalTTL time.Duration
	newsTTL   time.Duration

	l *applogger.Logger
}

func NewSignalService(
	market domsvc.MarketDataProvider,
	news domsvc.NewsProvider,
	analyzer domsvc.SentimentAnalyzer,
	gen domsvc.SignalGenerator,
	metrics domrepo.Metrics,
	historyBars int,
	newsLimit int,
) *SignalService {
	if historyBars <= 0 {
		historyBars = 100
	}
	if newsLimit <= 0 {
		newsLimit = 10
	}
	return &SignalService{
		market:      market,
		news:        news,
		analyzer:    analyzer,
		gen:         gen,
		metrics:     metrics,
		historyBars: historyBars,
		newsLimit:   newsLimit,
	}
}

// SetCache enables read-through caching of signals and news sentiment.
func (s *SignalService) SetCache(c pkgcache.Service, signalTTL, newsTTL time.Duration) {
	s.cache = c
	s.signalTTL = signalTTL
	s.newsTTL = newsTTL
}

// SetLogger injects a structured logger.
func (s *SignalService) SetLogger(l *applogger.Logger) { s.l = l }

func signalKey(symbol string) string { return pkgcache.GenerateKey("signal", symbol) }

func newsKey(symbol string, limit int) string {
	return pkgcache.GenerateKeyWithParams("news", symbol, limit)
}

// Signal returns the current signal for symbol, serving from cache when a
// recent generation exists.
func (s *SignalService) Signal(ctx context.Context, symbol string) (*models.TradingSignal, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if s.cache != nil {
		var cached models.TradingSignal
		if err := s.cache.Get(ctx, signalKey(symbol), &cached); err == nil {
			return &cached, nil
		}
	}
	return s.Refresh(ctx, symbol)
}

// Refresh regenerates the signal for symbol and overwrites the cached copy.
// A news outage degrades to a zero sentiment summary rather than failing the
// whole signal; price-history failures are fatal.
func (s *SignalService) Refresh(ctx context.Context, symbol string) (*models.TradingSignal, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	start := time.Now()

	bars, err := s.market.PriceHistory(ctx, symbol, domrepo.DefaultInterval(), s.historyBars)
	if err != nil {
		s.metrics.RecordError("price_history")
		return nil, fmt.Errorf("price history %s: %w", symbol, err)
	}

	summary := models.SentimentSummary{}
	if ns, err := s.Sentiment(ctx, symbol, s.newsLimit); err != nil {
		s.metrics.RecordError("news_sentiment")
		if s.l != nil {
			s.l.Warn("signal news_degraded",
				applogger.String("symbol", symbol),
				applogger.Error(err))
		}
	} else {
		summary = ns.Summary
	}

	sig, err := s.gen.Generate(symbol, &summary, bars)
	if err != nil {
		s.metrics.RecordError("generate")
		return nil, err
	}

	s.metrics.RecordSignal(sig.Action, symbol)
	s.metrics.RecordLastScore(symbol, sig.Score)
	s.metrics.RecordLatency("signal_generate", time.Since(start).Seconds())

	if s.cache != nil {
		if err := s.cache.Set(ctx, signalKey(symbol), sig, s.signalTTL); err != nil && s.l != nil {
			s.l.Warn("signal cache_set_error", applogger.Error(err))
		}
	}
	return sig, nil
}

// Sentiment fetches and scores the latest headlines for symbol.
func (s *SignalService) Sentiment(ctx context.Context, symbol string, limit int) (*models.NewsSentiment, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if limit <= 0 {
		limit = s.newsLimit
	}
	key := newsKey(symbol, limit)
	if s.cache != nil {
		var cached models.NewsSentiment
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	articles, err := s.news.LatestNews(ctx, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("latest news %s: %w", symbol, err)
	}
	summary, results := s.analyzer.Summarize(articles)

	ns := &models.NewsSentiment{
		Symbol:     symbol,
		Summary:    summary,
		Articles:   results,
		Keywords:   sentiment.MergeKeywords(results),
		AnalyzedAt: time.Now().UTC(),
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, ns, s.newsTTL); err != nil && s.l != nil {
			s.l.Warn("news cache_set_error", applogger.Error(err))
		}
	}
	return ns, nil
}

// Articles returns the raw headlines for symbol without scoring.
func (s *SignalService) Articles(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if limit <= 0 {
		limit = s.newsLimit
	}
	articles, err := s.news.LatestNews(ctx, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("latest news %s: %w", symbol, err)
	}
	return articles, nil
}
