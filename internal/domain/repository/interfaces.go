package repository

import (
	"context"

	"StockPulse/internal/domain/models"
)

type Publisher interface {
	Publish(ctx context.Context, s *models.TradingSignal) error
	PublishBatch(ctx context.Context, signals []*models.TradingSignal) error
	Close() error
}

type SignalStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, s *models.TradingSignal) error
	StoreBatch(ctx context.Context, signals []*models.TradingSignal) error
	History(ctx context.Context, symbol string, limit int) ([]*models.TradingSignal, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// Broadcaster fans a fresh signal out to connected dashboard clients.
// Best effort: slow consumers are dropped, never waited on.
type Broadcaster interface {
	Broadcast(s *models.TradingSignal)
}

type Metrics interface {
	RecordSignal(action, symbol string)
	RecordMessageSent(backend, symbol string)
	RecordError(kind string)
	RecordLastScore(symbol string, score float64)
	RecordLatency(op string, seconds float64)
}
