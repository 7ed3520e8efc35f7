package repository

import (
	"context"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	pkgkafka "StockPulse/pkg/kafka"
)

// signalPayload flattens a signal into the wire schema consumed downstream.
// Keys stay snake_case so the ClickHouse writer and any external consumer
// read the same names.
func signalPayload(s *models.TradingSignal) map[string]interface{} {
	return map[string]interface{}{
		"symbol":             s.Symbol,
		"action":             s.Action,
		"confidence":         s.Confidence,
		"score":              s.Score,
		"reasoning":          s.Reasoning,
		"latest_close":       s.Metrics.Price.LatestClose,
		"price_change":       s.Metrics.Price.PriceChange,
		"ma5":                s.Metrics.Price.MA5,
		"ma20":               s.Metrics.Price.MA20,
		"trend_strength":     s.Metrics.Price.TrendStrength,
		"sentiment_compound": s.Metrics.Sentiment.Compound,
		"sentiment_strength": s.Metrics.Sentiment.Strength,
		"sentiment_bias":     s.Metrics.Sentiment.Bias,
		"volume_ratio":       s.Metrics.Volume.Ratio,
		"volatility_trend":   s.Metrics.Volatility.Trend,
		"generated_at":       s.GeneratedAt.Unix(),
	}
}

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, s *models.TradingSignal) error {
	return p.producer.Publish(ctx, p.topic, []byte(s.Symbol), signalPayload(s))
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, signals []*models.TradingSignal) error {
	if len(signals) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(signals))
	for i, s := range signals {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(s.Symbol),
			Value: signalPayload(s),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
