package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
)

func testSignal(symbol, action string, confidence float64) *models.TradingSignal {
	return &models.TradingSignal{
		Symbol:      symbol,
		Action:      action,
		Confidence:  confidence,
		Score:       confidence,
		Reasoning:   []string{"test"},
		GeneratedAt: time.Now().UTC(),
	}
}

func TestProcessorKafkaBackend(t *testing.T) {
	pub := &fakePublisher{}
	store := &fakeSignalStore{}
	m := newFakeMetrics()
	p := NewSignalProcessor(pub, store, m, "kafka", 100, time.Second)

	if err := p.Process(context.Background(), testSignal("AAPL", models.ActionBuy, 0.5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published, got %d", len(pub.published))
	}
	if len(store.stored) != 0 {
		t.Fatalf("store should be untouched, got %d", len(store.stored))
	}
	if m.sentCount("kafka") != 1 {
		t.Fatalf("message not recorded")
	}
}

func TestProcessorClickHouseBackend(t *testing.T) {
	pub := &fakePublisher{}
	store := &fakeSignalStore{}
	m := newFakeMetrics()
	p := NewSignalProcessor(pub, store, m, "clickhouse", 100, time.Second)

	if err := p.Process(context.Background(), testSignal("AAPL", models.ActionSell, 0.4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("expected 1 stored, got %d", len(store.stored))
	}
	if len(pub.published) != 0 {
		t.Fatalf("publisher should be untouched, got %d", len(pub.published))
	}
}

func TestProcessorUnknownBackend(t *testing.T) {
	m := newFakeMetrics()
	p := NewSignalProcessor(&fakePublisher{}, &fakeSignalStore{}, m, "postgres", 100, time.Second)

	if err := p.Process(context.Background(), testSignal("AAPL", models.ActionHold, 0)); err == nil {
		t.Fatalf("expected error")
	}
	if m.errCount("process") != 1 {
		t.Fatalf("error not recorded")
	}
}

func TestProcessorNilSignal(t *testing.T) {
	p := NewSignalProcessor(&fakePublisher{}, &fakeSignalStore{}, newFakeMetrics(), "kafka", 100, time.Second)
	if err := p.Process(context.Background(), nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestProcessorBatch(t *testing.T) {
	store := &fakeSignalStore{}
	m := newFakeMetrics()
	p := NewSignalProcessor(&fakePublisher{}, store, m, "clickhouse", 100, time.Second)

	sigs := []*models.TradingSignal{
		testSignal("AAPL", models.ActionBuy, 0.5),
		testSignal("MSFT", models.ActionHold, 0.1),
		testSignal("GOOGL", models.ActionSell, 0.3),
	}
	if err := p.ProcessBatch(context.Background(), sigs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.stored) != 3 {
		t.Fatalf("expected 3 stored, got %d", len(store.stored))
	}
	if m.sentCount("clickhouse") != 3 {
		t.Fatalf("messages not recorded, got %d", m.sentCount("clickhouse"))
	}
}

func TestProcessorAlerts(t *testing.T) {
	q := &fakeAlertQueue{}
	p := NewSignalProcessor(&fakePublisher{}, &fakeSignalStore{}, newFakeMetrics(), "kafka", 100, time.Second)
	p.SetAlerts(q, 0.4)

	ctx := context.Background()
	// above threshold and actionable: alert
	if err := p.Process(ctx, testSignal("AAPL", models.ActionBuy, 0.5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// hold never alerts
	if err := p.Process(ctx, testSignal("MSFT", models.ActionHold, 0.9)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// below threshold
	if err := p.Process(ctx, testSignal("GOOGL", models.ActionSell, 0.3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.count() != 1 {
		t.Fatalf("expected 1 alert, got %d", q.count())
	}
	rec := q.sent[0]
	if rec.msgType != alertMessageType {
		t.Fatalf("unexpected message type %q", rec.msgType)
	}
	payload, ok := rec.payload.(SignalAlertPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", rec.payload)
	}
	if payload.Symbol != "AAPL" || payload.Action != models.ActionBuy {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestProcessorAlertEnqueueFailure(t *testing.T) {
	q := &fakeAlertQueue{err: errors.New("redis down")}
	m := newFakeMetrics()
	p := NewSignalProcessor(&fakePublisher{}, &fakeSignalStore{}, m, "kafka", 100, time.Second)
	p.SetAlerts(q, 0.1)

	// alert failure must not fail the signal itself
	if err := p.Process(context.Background(), testSignal("AAPL", models.ActionBuy, 0.8)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.errCount("alert_enqueue") != 1 {
		t.Fatalf("enqueue failure not recorded")
	}
}
