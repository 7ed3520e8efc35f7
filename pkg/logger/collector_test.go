package logger

import (
	"context"
	"sync"
	"testing"
	"time"
)

type capturePublisher struct {
	mu      sync.Mutex
	topic   string
	batches [][]AggregatedLogEntry
}

func (p *capturePublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	if logs, ok := payload.([]AggregatedLogEntry); ok {
		p.batches = append(p.batches, logs)
	}
	return nil
}

func (p *capturePublisher) lastTopic() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.topic
}

// waitForBatch polls until the publisher has received a batch. Flushes
// publish from a detached goroutine, so Close alone is not enough.
func waitForBatch(t *testing.T, p *capturePublisher) []AggregatedLogEntry {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		p.mu.Lock()
		if len(p.batches) > 0 {
			b := p.batches[0]
			p.mu.Unlock()
			return b
		}
		p.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("no batch published")
	return nil
}

func TestCollectorDeduplicates(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 100,
		Topic:          "log.report",
		Publisher:      pub,
	})

	fields := map[string]interface{}{"symbol": "AAPL"}
	c.AddLog("error", "price history failed", fields, "usecase/signal_service.go:101")
	c.AddLog("error", "price history failed", fields, "usecase/signal_service.go:101")
	c.AddLog("error", "news fetch failed", nil, "usecase/signal_service.go:148")
	c.Close()

	batch := waitForBatch(t, pub)
	if len(batch) != 2 {
		t.Fatalf("expected 2 aggregated entries, got %d", len(batch))
	}
	var repeated *AggregatedLogEntry
	for i := range batch {
		if batch[i].Message == "price history failed" {
			repeated = &batch[i]
		}
	}
	if repeated == nil {
		t.Fatalf("missing aggregated entry for repeated error")
	}
	if repeated.Count != 2 {
		t.Fatalf("expected count 2, got %d", repeated.Count)
	}
	if got := pub.lastTopic(); got != "log.report" {
		t.Fatalf("unexpected topic %q", got)
	}
}

func TestCollectorCountThresholdFlush(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 2,
		Topic:          "log.report",
		Publisher:      pub,
	})
	defer c.Close()

	c.AddLog("error", "first", nil, "a.go:1")
	c.AddLog("error", "second", nil, "b.go:2")

	batch := waitForBatch(t, pub)
	if len(batch) != 2 {
		t.Fatalf("expected 2 entries in flushed batch, got %d", len(batch))
	}
}
