package usecase

import (
	"context"
	"encoding/json"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	pkgkafka "StockPulse/pkg/kafka"
)

// KafkaSignalsHandler consumes published signals and writes them to storage.
type KafkaSignalsHandler struct {
	topic   string
	store   domrepo.SignalStore
	metrics domrepo.Metrics
}

func NewKafkaSignalsHandler(topic string, store domrepo.SignalStore, metrics domrepo.Metrics) *KafkaSignalsHandler {
	return &KafkaSignalsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaSignalsHandler) Topic() string { return h.topic }

// incoming message schema mirrors the publisher payload (flat snake_case)
func (h *KafkaSignalsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol            string   `json:"symbol"`
		Action            string   `json:"action"`
		Confidence        float64  `json:"confidence"`
		Score             float64  `json:"score"`
		Reasoning         []string `json:"reasoning"`
		LatestClose       float64  `json:"latest_close"`
		PriceChange       float64  `json:"price_change"`
		MA5               float64  `json:"ma5"`
		MA20              float64  `json:"ma20"`
		TrendStrength     float64  `json:"trend_strength"`
		SentimentCompound float64  `json:"sentiment_compound"`
		SentimentStrength float64  `json:"sentiment_strength"`
		SentimentBias     float64  `json:"sentiment_bias"`
		VolumeRatio       float64  `json:"volume_ratio"`
		VolatilityTrend   float64  `json:"volatility_trend"`
		GeneratedAt       int64    `json:"generated_at"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.GeneratedAt > 1e11 { // ms
		m.GeneratedAt = m.GeneratedAt / 1000
	}
	// E2E latency from generation time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.GeneratedAt, 0)).Seconds())

	sig := &models.TradingSignal{
		Symbol:     m.Symbol,
		Action:     m.Action,
		Confidence: m.Confidence,
		Score:      m.Score,
		Reasoning:  m.Reasoning,
		Metrics: models.SignalMetrics{
			Price: models.PriceMetrics{
				LatestClose:   m.LatestClose,
				PriceChange:   m.PriceChange,
				MA5:           m.MA5,
				MA20:          m.MA20,
				TrendStrength: m.TrendStrength,
			},
			Sentiment: models.SentimentMetrics{
				Compound: m.SentimentCompound,
				Strength: m.SentimentStrength,
				Bias:     m.SentimentBias,
			},
			Volume:     models.VolumeMetrics{Ratio: m.VolumeRatio},
			Volatility: models.VolatilityMetrics{Trend: m.VolatilityTrend},
		},
		GeneratedAt: time.Unix(m.GeneratedAt, 0).UTC(),
	}

	start := time.Now()
	err := h.store.Store(ctx, sig)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordMessageSent("clickhouse", m.Symbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSignalsHandler)(nil)
