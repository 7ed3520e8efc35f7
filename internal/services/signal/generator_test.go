package signal

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/quant"
)

func mkBars(closes, volumes []float64) []models.PriceBar {
	base := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	bars := make([]models.PriceBar, len(closes))
	for i := range closes {
		v := 1000.0
		if volumes != nil {
			v = volumes[i]
		}
		bars[i] = models.PriceBar{
			Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
			Open:      closes[i],
			High:      closes[i],
			Low:       closes[i],
			Close:     closes[i],
			Volume:    v,
		}
	}
	return bars
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// exampleBars is the canonical fixture: 19 flat bars then a 10% jump on
// five times the usual volume.
func exampleBars() []models.PriceBar {
	closes := flat(20, 100)
	closes[19] = 110
	volumes := flat(20, 1000)
	volumes[19] = 5000
	return mkBars(closes, volumes)
}

func exampleSentiment() *models.SentimentSummary {
	return &models.SentimentSummary{
		Compound:     0.5,
		Positive:     0.6,
		Negative:     0.1,
		Neutral:      0.3,
		ArticleCount: 10,
	}
}

func TestGenerateBuySignal(t *testing.T) {
	g := NewGenerator(DefaultConfig())
	sig, err := g.Generate("AAPL", exampleSentiment(), exampleBars())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sig.Action != models.ActionBuy {
		t.Fatalf("expected BUY, got %s (score %v)", sig.Action, sig.Score)
	}
	// 0.4*(0.5*0.5) + 0.3*(1.5/100.5) + 0.2*((25/6-1)/4) - 0.1*1.0
	want := 0.16281094527363186
	if math.Abs(sig.Score-want) > 1e-9 {
		t.Fatalf("unexpected score %v, want %v", sig.Score, want)
	}
	if math.Abs(sig.Confidence-want) > 1e-9 {
		t.Fatalf("unexpected confidence %v", sig.Confidence)
	}
	if sig.Symbol != "AAPL" {
		t.Fatalf("unexpected symbol %q", sig.Symbol)
	}
	if sig.GeneratedAt.IsZero() {
		t.Fatalf("expected generated timestamp")
	}

	if len(sig.Reasoning) != 2 {
		t.Fatalf("unexpected reasoning %v", sig.Reasoning)
	}
	if sig.Reasoning[0] != "Positive sentiment bias (0.50) with strong sentiment (0.50)" {
		t.Fatalf("unexpected sentiment sentence %q", sig.Reasoning[0])
	}
	if sig.Reasoning[1] != "High trading volume (4.2x average)" {
		t.Fatalf("unexpected volume sentence %q", sig.Reasoning[1])
	}
}

func TestGenerateSellSignal(t *testing.T) {
	closes := flat(20, 100)
	closes[19] = 90
	bars := mkBars(closes, nil)
	sent := &models.SentimentSummary{Compound: -0.5, Positive: 0.1, Negative: 0.6, Neutral: 0.3}

	g := NewGenerator(DefaultConfig())
	sig, err := g.Generate("MSFT", sent, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Action != models.ActionSell {
		t.Fatalf("expected SELL, got %s (score %v)", sig.Action, sig.Score)
	}
	if len(sig.Reasoning) != 1 {
		t.Fatalf("unexpected reasoning %v", sig.Reasoning)
	}
	if sig.Reasoning[0] != "Negative sentiment bias (-0.50) with strong sentiment (0.50)" {
		t.Fatalf("unexpected sentence %q", sig.Reasoning[0])
	}
}

func TestGenerateZeroMetricsHolds(t *testing.T) {
	bars := mkBars(flat(20, 100), flat(20, 1000))
	sent := &models.SentimentSummary{Compound: 0, Positive: 0.2, Negative: 0.2, Neutral: 0.6}

	g := NewGenerator(DefaultConfig())
	sig, err := g.Generate("GOOGL", sent, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Score != 0 {
		t.Fatalf("expected zero score, got %v", sig.Score)
	}
	if sig.Action != models.ActionHold {
		t.Fatalf("expected HOLD, got %s", sig.Action)
	}
	if sig.Confidence != 0 {
		t.Fatalf("expected zero confidence, got %v", sig.Confidence)
	}
	if len(sig.Reasoning) != 0 {
		t.Fatalf("expected no reasoning, got %v", sig.Reasoning)
	}
}

func TestGenerateScoreThresholdFromConfig(t *testing.T) {
	// The same fixture that buys at the default cutoff holds at 0.2:
	// the score threshold is policy, not a law.
	cfg := DefaultConfig()
	cfg.ScoreThreshold = 0.2
	g := NewGenerator(cfg)

	sig, err := g.Generate("AAPL", exampleSentiment(), exampleBars())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Action != models.ActionHold {
		t.Fatalf("expected HOLD at raised threshold, got %s", sig.Action)
	}
}

func TestGenerateEmptyHistory(t *testing.T) {
	g := NewGenerator(DefaultConfig())
	_, err := g.Generate("AAPL", exampleSentiment(), nil)
	if !errors.Is(err, ErrMissingHistory) {
		t.Fatalf("expected ErrMissingHistory, got %v", err)
	}
}

func TestGenerateInsufficientHistory(t *testing.T) {
	g := NewGenerator(DefaultConfig())
	for _, n := range []int{1, 5, 19} {
		bars := mkBars(flat(n, 100), nil)
		_, err := g.Generate("AAPL", exampleSentiment(), bars)
		if !errors.Is(err, quant.ErrInsufficientData) {
			t.Fatalf("n=%d: expected ErrInsufficientData, got %v", n, err)
		}
	}
}

func TestGenerateNilSentiment(t *testing.T) {
	g := NewGenerator(DefaultConfig())
	_, err := g.Generate("AAPL", nil, exampleBars())
	if !errors.Is(err, ErrMissingSentiment) {
		t.Fatalf("expected ErrMissingSentiment, got %v", err)
	}
}

func TestGenerateZeroPrevClose(t *testing.T) {
	closes := flat(20, 100)
	closes[18] = 0
	g := NewGenerator(DefaultConfig())
	_, err := g.Generate("AAPL", exampleSentiment(), mkBars(closes, nil))
	if !errors.Is(err, quant.ErrZeroDivisor) {
		t.Fatalf("expected ErrZeroDivisor, got %v", err)
	}
}

func TestGenerateZeroAverageVolume(t *testing.T) {
	g := NewGenerator(DefaultConfig())
	bars := mkBars(flat(20, 100), flat(20, 0))
	_, err := g.Generate("AAPL", exampleSentiment(), bars)
	if !errors.Is(err, quant.ErrZeroDivisor) {
		t.Fatalf("expected ErrZeroDivisor, got %v", err)
	}
}

func TestGenerateConfidenceClamped(t *testing.T) {
	closes := flat(20, 100)
	closes[19] = 110
	volumes := flat(20, 1000)
	volumes[19] = 1000000
	sent := &models.SentimentSummary{Compound: 1, Positive: 1, Negative: 0}
	g := NewGenerator(DefaultConfig())

	sig, err := g.Generate("AAPL", sent, mkBars(closes, volumes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(sig.Score) <= 1 {
		t.Fatalf("fixture should overflow the unit score, got %v", sig.Score)
	}
	if sig.Confidence != 1.0 {
		t.Fatalf("expected clamped confidence, got %v", sig.Confidence)
	}
}

func TestScoreMonotonicInSentiment(t *testing.T) {
	bars := exampleBars()
	g := NewGenerator(DefaultConfig())

	weak, err := g.Generate("AAPL", &models.SentimentSummary{Compound: 0.3, Positive: 0.4, Negative: 0.2, Neutral: 0.4}, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	strong, err := g.Generate("AAPL", &models.SentimentSummary{Compound: 0.6, Positive: 0.7, Negative: 0.05, Neutral: 0.25}, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strong.Score <= weak.Score {
		t.Fatalf("score not monotone in bias*strength: %v <= %v", strong.Score, weak.Score)
	}
}

func TestSentimentTermSymmetry(t *testing.T) {
	bars := exampleBars()
	g := NewGenerator(DefaultConfig())

	pos, err := g.Generate("AAPL", &models.SentimentSummary{Compound: 0.5, Positive: 0.6, Negative: 0.1, Neutral: 0.3}, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	neg, err := g.Generate("AAPL", &models.SentimentSummary{Compound: 0.5, Positive: 0.1, Negative: 0.6, Neutral: 0.3}, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Negating the bias negates the sentiment term exactly: the score
	// gap is twice the term.
	gap := pos.Score - neg.Score
	want := 2 * 0.4 * 0.5 * 0.5
	if math.Abs(gap-want) > 1e-9 {
		t.Fatalf("unexpected symmetry gap %v, want %v", gap, want)
	}
}

func TestReasoningSkipsWeakSentiment(t *testing.T) {
	// Positive bias but strength below the strong-sentiment cutoff:
	// no sentiment sentence at all.
	sent := &models.SentimentSummary{Compound: 0.1, Positive: 0.6, Negative: 0.1, Neutral: 0.3}
	g := NewGenerator(DefaultConfig())

	sig, err := g.Generate("AAPL", sent, exampleBars())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range sig.Reasoning {
		if strings.Contains(r, "sentiment") {
			t.Fatalf("unexpected sentiment sentence %q", r)
		}
	}
	if len(sig.Reasoning) != 1 || sig.Reasoning[0] != "High trading volume (4.2x average)" {
		t.Fatalf("unexpected reasoning %v", sig.Reasoning)
	}
}

func TestReasoningDownwardTrend(t *testing.T) {
	// Steady decline strong enough to clear the trend gate.
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 200 - float64(i)*3
	}
	g := NewGenerator(DefaultConfig())

	sig, err := g.Generate("AAPL", &models.SentimentSummary{}, mkBars(closes, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, r := range sig.Reasoning {
		if r == "Strong downward price trend (MA5 below MA20)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected downward trend sentence, got %v", sig.Reasoning)
	}
}

func TestReasoningRisingVolatility(t *testing.T) {
	// Long quiet head, violent tail: the trailing deviation dwarfs the
	// overall one and the volatility sentence fires.
	closes := flat(40, 100)
	for i := 40; i < 60; i++ {
		if i%2 == 0 {
			closes = append(closes, 110)
		} else {
			closes = append(closes, 100)
		}
	}
	g := NewGenerator(DefaultConfig())

	sig, err := g.Generate("AAPL", &models.SentimentSummary{}, mkBars(closes, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, r := range sig.Reasoning {
		if r == "Increasing market volatility" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected volatility sentence, got %v (trend %v)", sig.Reasoning, sig.Metrics.Volatility.Trend)
	}
}

func TestPriceMetricsValues(t *testing.T) {
	g := NewGenerator(DefaultConfig())
	pm, err := g.PriceMetrics(exampleBars())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pm.LatestClose != 110 {
		t.Fatalf("unexpected latest close %v", pm.LatestClose)
	}
	if math.Abs(pm.PriceChange-0.1) > 1e-9 {
		t.Fatalf("unexpected price change %v", pm.PriceChange)
	}
	if math.Abs(pm.MA5-102) > 1e-9 || math.Abs(pm.MA20-100.5) > 1e-9 {
		t.Fatalf("unexpected moving averages %v %v", pm.MA5, pm.MA20)
	}
	if math.Abs(pm.TrendStrength-1.5/100.5) > 1e-9 {
		t.Fatalf("unexpected trend strength %v", pm.TrendStrength)
	}
}

func TestVolumeMetricsValues(t *testing.T) {
	g := NewGenerator(DefaultConfig())
	vm, err := g.VolumeMetrics(exampleBars())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vm.Current != 5000 {
		t.Fatalf("unexpected current volume %v", vm.Current)
	}
	if math.Abs(vm.Average-1200) > 1e-9 {
		t.Fatalf("unexpected average volume %v", vm.Average)
	}
	if math.Abs(vm.Ratio-5000.0/1200.0) > 1e-9 {
		t.Fatalf("unexpected volume ratio %v", vm.Ratio)
	}
}

func TestVolatilityTrendZeroWhenFlat(t *testing.T) {
	g := NewGenerator(DefaultConfig())
	vm, err := g.VolatilityMetrics(mkBars(flat(20, 100), nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vm.Overall != 0 {
		t.Fatalf("expected zero overall volatility, got %v", vm.Overall)
	}
	if vm.Trend != 0 {
		t.Fatalf("expected zero trend for flat history, got %v", vm.Trend)
	}
}

func TestVolatilityRecentWindow(t *testing.T) {
	g := NewGenerator(DefaultConfig())
	vm, err := g.VolatilityMetrics(exampleBars())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 19 returns, so the 20-return window covers all of them and the
	// trend ratio is exactly 1.
	if math.Abs(vm.Trend-1.0) > 1e-9 {
		t.Fatalf("unexpected volatility trend %v", vm.Trend)
	}
}
