package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
)

type fakeMarket struct {
	bars      []models.PriceBar
	err       error
	failFor   map[string]error
	calls     atomic.Int32
	lastLimit atomic.Int32
}

func (f *fakeMarket) Name() string { return "fake-market" }

func (f *fakeMarket) PriceHistory(ctx context.Context, symbol string, interval domrepo.Interval, limit int) ([]models.PriceBar, error) {
	f.calls.Add(1)
	f.lastLimit.Store(int32(limit))
	if err, ok := f.failFor[symbol]; ok {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.bars, nil
}

type fakeNews struct {
	articles []models.NewsArticle
	err      error
	calls    atomic.Int32
}

func (f *fakeNews) Name() string { return "fake-news" }

func (f *fakeNews) LatestNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.articles) {
		return f.articles[:limit], nil
	}
	return f.articles, nil
}

type fakeProfiles struct {
	prof  *models.CompanyProfile
	err   error
	calls atomic.Int32
}

func (f *fakeProfiles) CompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.prof, nil
}

type fakeAnalyzer struct {
	summary models.SentimentSummary
}

func (f *fakeAnalyzer) AnalyzeArticle(a models.NewsArticle) models.ArticleSentiment {
	return models.ArticleSentiment{Title: a.Title}
}

func (f *fakeAnalyzer) Summarize(articles []models.NewsArticle) (models.SentimentSummary, []models.ArticleSentiment) {
	out := make([]models.ArticleSentiment, 0, len(articles))
	for _, a := range articles {
		out = append(out, f.AnalyzeArticle(a))
	}
	s := f.summary
	s.ArticleCount = len(articles)
	return s, out
}

type fakeGenerator struct {
	mu   sync.Mutex
	err  error
	last *models.SentimentSummary
}

func (f *fakeGenerator) Generate(symbol string, sentiment *models.SentimentSummary, bars []models.PriceBar) (*models.TradingSignal, error) {
	f.mu.Lock()
	f.last = sentiment
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &models.TradingSignal{
		Symbol:      symbol,
		Action:      models.ActionBuy,
		Confidence:  0.5,
		Score:       0.5,
		Reasoning:   []string{"test signal"},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (f *fakeGenerator) lastSummary() *models.SentimentSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

type fakeMetrics struct {
	mu      sync.Mutex
	signals map[string]int
	errors  map[string]int
	sent    map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		signals: map[string]int{},
		errors:  map[string]int{},
		sent:    map[string]int{},
	}
}

func (m *fakeMetrics) RecordSignal(action, symbol string) {
	m.mu.Lock()
	m.signals[action]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordMessageSent(backend, symbol string) {
	m.mu.Lock()
	m.sent[backend]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLastScore(symbol string, score float64) {}

func (m *fakeMetrics) RecordLatency(op string, seconds float64) {}

func (m *fakeMetrics) errCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

func (m *fakeMetrics) signalCount(action string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signals[action]
}

func (m *fakeMetrics) sentCount(backend string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[backend]
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*models.TradingSignal
	err       error
	closed    bool
}

func (f *fakePublisher) Publish(ctx context.Context, s *models.TradingSignal) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.published = append(f.published, s)
	f.mu.Unlock()
	return nil
}

func (f *fakePublisher) PublishBatch(ctx context.Context, sigs []*models.TradingSignal) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.published = append(f.published, sigs...)
	f.mu.Unlock()
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

type fakeSignalStore struct {
	mu     sync.Mutex
	stored []*models.TradingSignal
	err    error
}

func (f *fakeSignalStore) Init(ctx context.Context) error { return nil }

func (f *fakeSignalStore) Store(ctx context.Context, s *models.TradingSignal) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.stored = append(f.stored, s)
	f.mu.Unlock()
	return nil
}

func (f *fakeSignalStore) StoreBatch(ctx context.Context, sigs []*models.TradingSignal) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.stored = append(f.stored, sigs...)
	f.mu.Unlock()
	return nil
}

func (f *fakeSignalStore) History(ctx context.Context, symbol string, limit int) ([]*models.TradingSignal, error) {
	return nil, nil
}

func (f *fakeSignalStore) Health(ctx context.Context) error { return nil }

func (f *fakeSignalStore) Close() error { return nil }

type alertRecord struct {
	msgType string
	payload interface{}
}

type fakeAlertQueue struct {
	mu   sync.Mutex
	sent []alertRecord
	err  error
}

func (f *fakeAlertQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.sent = append(f.sent, alertRecord{msgType, payload})
	f.mu.Unlock()
	return nil
}

func (f *fakeAlertQueue) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// testBars builds a flat-then-spike series long enough for the metric
// windows.
func testBars(n int) []models.PriceBar {
	base := time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)
	bars := make([]models.PriceBar, n)
	for i := range bars {
		bars[i] = models.PriceBar{
			Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
			Open:      100,
			High:      101,
			Low:       99,
			Close:     100,
			Volume:    1000,
		}
	}
	if n > 0 {
		bars[n-1].Close = 110
		bars[n-1].Volume = 5000
	}
	return bars
}
