package usecase

import (
	"context"
	"time"

	drepo "StockPulse/internal/domain/repository"
	pkgkafka "StockPulse/pkg/kafka"

	"github.com/segmentio/kafka-go"
)

// IngestHook instruments consumer message handling. BeforeHandle stamps the
// start time and propagates a trace id from headers; AfterHandle turns the
// stamp into a handle-latency observation.
type IngestHook struct {
	metrics drepo.Metrics
}

func NewIngestHook(metrics drepo.Metrics) *IngestHook {
	return &IngestHook{metrics: metrics}
}

func (h *IngestHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	ctx = pkgkafka.WithStartTime(ctx, time.Now())
	ctx = pkgkafka.WithTraceID(ctx, pkgkafka.ExtractTraceID(km))
	return ctx, km, data, nil
}

func (h *IngestHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	if h.metrics == nil {
		return
	}
	if start, ok := ctx.Value(pkgkafka.CtxStartTime).(time.Time); ok {
		h.metrics.RecordLatency("consumer_handle", time.Since(start).Seconds())
	}
}

func (h *IngestHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	if h.metrics != nil {
		h.metrics.RecordError("consumer_handle")
	}
}

var _ pkgkafka.ConsumerHook = (*IngestHook)(nil)
