package usecase

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/pkg/queue"
)

// SignalProcessor routes generated signals to the configured backend and
// raises alert jobs for actionable high-confidence signals.
type SignalProcessor struct {
	pub     drepo.Publisher
	store   drepo.SignalStore
	metrics drepo.Metrics
	backend string
	batchSz int
	batchTO time.Duration

	alerts        queue.QueueService
	minConfidence float64
}

// NewSignalProcessor creates a new SignalProcessor instance.
func NewSignalProcessor(
	pub drepo.Publisher,
	store drepo.SignalStore,
	metrics drepo.Metrics,
	backend string,
	batchSz int,
	batchTO time.Duration,
) *SignalProcessor {
	return &SignalProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
		batchSz: batchSz,
		batchTO: batchTO,
	}
}

// SetAlerts enables alert jobs for signals at or above minConfidence.
func (p *SignalProcessor) SetAlerts(q queue.QueueService, minConfidence float64) {
	p.alerts = q
	p.minConfidence = minConfidence
}

// Process routes a single signal to the configured backend.
func (p *SignalProcessor) Process(ctx context.Context, s *models.TradingSignal) error {
	if s == nil {
		return fmt.Errorf("signal is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, s)
	case "clickhouse":
		err = p.store.Store(ctx, s)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process signal: %w", err)
	}

	p.metrics.RecordMessageSent(p.backend, s.Symbol)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	p.maybeAlert(ctx, s)
	return nil
}

// ProcessBatch routes multiple signals in a batch.
func (p *SignalProcessor) ProcessBatch(ctx context.Context, sigs []*models.TradingSignal) error {
	if len(sigs) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, sigs)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, sigs)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, s := range sigs {
		p.metrics.RecordMessageSent(p.backend, s.Symbol)
		p.maybeAlert(ctx, s)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

func (p *SignalProcessor) maybeAlert(ctx context.Context, s *models.TradingSignal) {
	if p.alerts == nil || s.Action == models.ActionHold || s.Confidence < p.minConfidence {
		return
	}
	err := p.alerts.PublishMessage(ctx, alertMessageType, SignalAlertPayload{
		Symbol:     s.Symbol,
		Action:     s.Action,
		Confidence: s.Confidence,
		Score:      s.Score,
		Reasoning:  s.Reasoning,
		At:         s.GeneratedAt,
	})
	if err != nil {
		p.metrics.RecordError("alert_enqueue")
	}
}

// Close closes underlying resources if available.
func (p *SignalProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
