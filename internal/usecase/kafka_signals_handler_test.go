package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

const signalsMessage = `{
	"event_id": "a1b2c3",
	"symbol": "AAPL",
	"action": "BUY",
	"confidence": 0.16,
	"score": 0.163,
	"reasoning": ["Positive news sentiment (strength: 0.50)"],
	"latest_close": 110,
	"price_change": 0.1,
	"ma5": 102,
	"ma20": 100.5,
	"trend_strength": 0.0149,
	"sentiment_compound": 0.5,
	"sentiment_strength": 0.5,
	"sentiment_bias": 0.5,
	"volume_ratio": 4.16,
	"volatility_trend": 1.0,
	"generated_at": 1704205800
}`

func TestKafkaSignalsHandlerStoresSignal(t *testing.T) {
	store := &fakeSignalStore{}
	m := newFakeMetrics()
	h := NewKafkaSignalsHandler("stockpulse.signals", store, m)

	if got := h.Topic(); got != "stockpulse.signals" {
		t.Fatalf("unexpected topic %q", got)
	}
	if err := h.Handle(context.Background(), []byte(signalsMessage)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("expected 1 stored signal, got %d", len(store.stored))
	}

	sig := store.stored[0]
	if sig.Symbol != "AAPL" || sig.Action != "BUY" {
		t.Fatalf("unexpected signal %s/%s", sig.Symbol, sig.Action)
	}
	if sig.Metrics.Price.LatestClose != 110 {
		t.Fatalf("unexpected latest close %v", sig.Metrics.Price.LatestClose)
	}
	if sig.Metrics.Sentiment.Compound != 0.5 {
		t.Fatalf("unexpected compound %v", sig.Metrics.Sentiment.Compound)
	}
	want := time.Unix(1704205800, 0).UTC()
	if !sig.GeneratedAt.Equal(want) {
		t.Fatalf("unexpected generated_at %v, want %v", sig.GeneratedAt, want)
	}
	if m.sentCount("clickhouse") != 1 {
		t.Fatalf("clickhouse write not recorded")
	}
}

func TestKafkaSignalsHandlerMillisTimestamp(t *testing.T) {
	store := &fakeSignalStore{}
	h := NewKafkaSignalsHandler("stockpulse.signals", store, newFakeMetrics())

	msg := `{"symbol": "MSFT", "action": "HOLD", "generated_at": 1704205800000}`
	if err := h.Handle(context.Background(), []byte(msg)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Unix(1704205800, 0).UTC()
	if got := store.stored[0].GeneratedAt; !got.Equal(want) {
		t.Fatalf("millisecond timestamp not normalized: got %v, want %v", got, want)
	}
}

func TestKafkaSignalsHandlerBadPayload(t *testing.T) {
	m := newFakeMetrics()
	h := NewKafkaSignalsHandler("stockpulse.signals", &fakeSignalStore{}, m)

	if err := h.Handle(context.Background(), []byte("not json")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if m.errCount("consumer_unmarshal") != 1 {
		t.Fatalf("unmarshal error not recorded")
	}
}

func TestKafkaSignalsHandlerStoreError(t *testing.T) {
	m := newFakeMetrics()
	store := &fakeSignalStore{err: errors.New("insert failed")}
	h := NewKafkaSignalsHandler("stockpulse.signals", store, m)

	err := h.Handle(context.Background(), []byte(signalsMessage))
	if err == nil {
		t.Fatalf("expected store error")
	}
	if m.errCount("consumer_store") != 1 {
		t.Fatalf("store error not recorded")
	}
	if m.sentCount("clickhouse") != 0 {
		t.Fatalf("failed write must not be recorded as sent")
	}
}
