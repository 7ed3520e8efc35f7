// Package signal turns sentiment and price-history summaries into
// BUY/SELL/HOLD records. Everything here is pure computation: the only
// side channel is the injected logger.
package signal

import (
	"errors"
	"fmt"
	"math"
	"time"

	"StockPulse/internal/domain/models"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/services/quant"
	applogger "StockPulse/pkg/logger"
)

// Rolling windows. MA20 and the volume average dominate the history
// requirement: fewer than 20 bars is an error, not a degraded metric.
const (
	maShortWindow  = 5
	maLongWindow   = 20
	volumeWindow   = 20
	volatilityTail = 20
)

var (
	ErrMissingSentiment = errors.New("signal: sentiment summary is required")
	ErrMissingHistory   = errors.New("signal: price history is required")
)

// Weights are the linear coefficients of the four score terms.
type Weights struct {
	Sentiment  float64
	PriceTrend float64
	Volume     float64
	Volatility float64
}

// Config is the scoring policy. ScoreThreshold classifies the combined
// score; SentimentThreshold only gates the sentiment reasoning sentence.
// The two are distinct on purpose.
type Config struct {
	Weights                  Weights
	ScoreThreshold           float64
	SentimentThreshold       float64
	PriceTrendThreshold      float64
	VolumeThreshold          float64
	VolatilityTrendThreshold float64
}

// DefaultConfig returns the shipped tuning.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Sentiment:  0.4,
			PriceTrend: 0.3,
			Volume:     0.2,
			Volatility: 0.1,
		},
		ScoreThreshold:           0.1,
		SentimentThreshold:       0.2,
		PriceTrendThreshold:      0.02,
		VolumeThreshold:          1.5,
		VolatilityTrendThreshold: 1.5,
	}
}

// Generator maps (sentiment summary, price history) to a TradingSignal.
type Generator struct {
	cfg Config
	l   *applogger.Logger
}

func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// SetLogger attaches an optional logger for error reporting.
func (g *Generator) SetLogger(l *applogger.Logger) { g.l = l }

// Generate computes the four metric groups, the weighted score, the
// action and the reasoning list. Any precondition failure in a
// sub-computation propagates; no partial signal is ever returned.
func (g *Generator) Generate(symbol string, sentiment *models.SentimentSummary, bars []models.PriceBar) (*models.TradingSignal, error) {
	price, err := g.PriceMetrics(bars)
	if err != nil {
		return nil, g.fail(symbol, err)
	}
	sent, err := g.SentimentMetrics(sentiment)
	if err != nil {
		return nil, g.fail(symbol, err)
	}
	volume, err := g.VolumeMetrics(bars)
	if err != nil {
		return nil, g.fail(symbol, err)
	}
	volatility, err := g.VolatilityMetrics(bars)
	if err != nil {
		return nil, g.fail(symbol, err)
	}

	metrics := models.SignalMetrics{
		Price:      price,
		Sentiment:  sent,
		Volume:     volume,
		Volatility: volatility,
	}
	score := g.score(metrics)

	return &models.TradingSignal{
		Symbol:      symbol,
		Action:      g.classify(score),
		Confidence:  math.Min(math.Abs(score), 1.0),
		Score:       score,
		Reasoning:   g.reasoning(metrics),
		Metrics:     metrics,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// PriceMetrics computes the trend view: latest close, one-bar change,
// MA5/MA20 and their normalized gap.
func (g *Generator) PriceMetrics(bars []models.PriceBar) (models.PriceMetrics, error) {
	if len(bars) == 0 {
		return models.PriceMetrics{}, fmt.Errorf("price metrics: %w", ErrMissingHistory)
	}
	closes := quant.Closes(bars)
	if len(closes) < maLongWindow {
		return models.PriceMetrics{}, fmt.Errorf("price metrics: %w: need %d bars, have %d", quant.ErrInsufficientData, maLongWindow, len(closes))
	}

	latest := closes[len(closes)-1]
	prev := closes[len(closes)-2]
	if prev == 0 {
		return models.PriceMetrics{}, fmt.Errorf("price metrics: previous close: %w", quant.ErrZeroDivisor)
	}

	ma5, err := quant.SMA(closes, maShortWindow)
	if err != nil {
		return models.PriceMetrics{}, fmt.Errorf("price metrics: ma5: %w", err)
	}
	ma20, err := quant.SMA(closes, maLongWindow)
	if err != nil {
		return models.PriceMetrics{}, fmt.Errorf("price metrics: ma20: %w", err)
	}
	if ma20 == 0 {
		return models.PriceMetrics{}, fmt.Errorf("price metrics: ma20: %w", quant.ErrZeroDivisor)
	}

	return models.PriceMetrics{
		LatestClose:   latest,
		PriceChange:   (latest - prev) / prev,
		MA5:           ma5,
		MA20:          ma20,
		TrendStrength: (ma5 - ma20) / ma20,
	}, nil
}

// SentimentMetrics passes the polarity breakdown through and derives
// strength (|compound|) and bias (positive - negative).
func (g *Generator) SentimentMetrics(s *models.SentimentSummary) (models.SentimentMetrics, error) {
	if s == nil {
		return models.SentimentMetrics{}, fmt.Errorf("sentiment metrics: %w", ErrMissingSentiment)
	}
	return models.SentimentMetrics{
		Compound: s.Compound,
		Positive: s.Positive,
		Negative: s.Negative,
		Neutral:  s.Neutral,
		Strength: math.Abs(s.Compound),
		Bias:     s.Positive - s.Negative,
	}, nil
}

// VolumeMetrics compares the latest volume against its 20-period mean.
func (g *Generator) VolumeMetrics(bars []models.PriceBar) (models.VolumeMetrics, error) {
	if len(bars) == 0 {
		return models.VolumeMetrics{}, fmt.Errorf("volume metrics: %w", ErrMissingHistory)
	}
	volumes := quant.Volumes(bars)
	if len(volumes) < volumeWindow {
		return models.VolumeMetrics{}, fmt.Errorf("volume metrics: %w: need %d bars, have %d", quant.ErrInsufficientData, volumeWindow, len(volumes))
	}

	current := volumes[len(volumes)-1]
	avg, err := quant.SMA(volumes, volumeWindow)
	if err != nil {
		return models.VolumeMetrics{}, fmt.Errorf("volume metrics: %w", err)
	}
	if avg == 0 {
		return models.VolumeMetrics{}, fmt.Errorf("volume metrics: average volume: %w", quant.ErrZeroDivisor)
	}

	return models.VolumeMetrics{
		Current: current,
		Average: avg,
		Ratio:   current / avg,
	}, nil
}

// VolatilityMetrics computes sample deviations of percentage returns
// over the whole history and over the trailing window, plus their ratio.
func (g *Generator) VolatilityMetrics(bars []models.PriceBar) (models.VolatilityMetrics, error) {
	if len(bars) == 0 {
		return models.VolatilityMetrics{}, fmt.Errorf("volatility metrics: %w", ErrMissingHistory)
	}
	returns, err := quant.PctChangeReturns(quant.Closes(bars))
	if err != nil {
		return models.VolatilityMetrics{}, fmt.Errorf("volatility metrics: %w", err)
	}
	overall, err := quant.SampleStd(returns)
	if err != nil {
		return models.VolatilityMetrics{}, fmt.Errorf("volatility metrics: %w", err)
	}
	recent, err := quant.SampleStd(quant.Tail(returns, volatilityTail))
	if err != nil {
		return models.VolatilityMetrics{}, fmt.Errorf("volatility metrics: recent window: %w", err)
	}

	trend := 0.0
	if overall > 0 {
		trend = recent / overall
	}
	return models.VolatilityMetrics{
		Overall: overall,
		Recent:  recent,
		Trend:   trend,
	}, nil
}

func (g *Generator) score(m models.SignalMetrics) float64 {
	score := m.Sentiment.Bias * m.Sentiment.Strength * g.cfg.Weights.Sentiment
	score += m.Price.TrendStrength * g.cfg.Weights.PriceTrend
	score += (m.Volume.Ratio - 1) / 4 * g.cfg.Weights.Volume
	score += -m.Volatility.Trend * g.cfg.Weights.Volatility
	return score
}

func (g *Generator) classify(score float64) string {
	switch {
	case score > g.cfg.ScoreThreshold:
		return models.ActionBuy
	case score < -g.cfg.ScoreThreshold:
		return models.ActionSell
	default:
		return models.ActionHold
	}
}

// reasoning emits at most one sentence per metric group, in fixed order
// (sentiment, price, volume, volatility), each behind its own gate.
func (g *Generator) reasoning(m models.SignalMetrics) []string {
	reasons := make([]string, 0, 4)

	if m.Sentiment.Strength >= g.cfg.SentimentThreshold {
		direction := "Positive"
		if m.Sentiment.Bias <= 0 {
			direction = "Negative"
		}
		reasons = append(reasons, fmt.Sprintf("%s sentiment bias (%.2f) with strong sentiment (%.2f)", direction, m.Sentiment.Bias, m.Sentiment.Strength))
	}

	if math.Abs(m.Price.TrendStrength) > g.cfg.PriceTrendThreshold {
		if m.Price.TrendStrength > 0 {
			reasons = append(reasons, "Strong upward price trend (MA5 above MA20)")
		} else {
			reasons = append(reasons, "Strong downward price trend (MA5 below MA20)")
		}
	}

	if m.Volume.Ratio > g.cfg.VolumeThreshold {
		reasons = append(reasons, fmt.Sprintf("High trading volume (%.1fx average)", m.Volume.Ratio))
	}

	if m.Volatility.Trend > g.cfg.VolatilityTrendThreshold {
		reasons = append(reasons, "Increasing market volatility")
	}

	return reasons
}

func (g *Generator) fail(symbol string, err error) error {
	if g.l != nil {
		g.l.Error("signal generation failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}
	return err
}

var _ domsvc.SignalGenerator = (*Generator)(nil)
