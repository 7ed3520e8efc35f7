package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestSignalBoardBuild(t *testing.T) {
	market := &fakeMarket{bars: testBars(25)}
	svc := newTestService(market, &fakeNews{}, &fakeGenerator{}, newFakeMetrics())
	uc := NewSignalBoardUseCase(svc)

	symbols := []string{"AAPL", "MSFT", "GOOGL"}
	board, err := uc.Build(context.Background(), symbols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.Signals) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(board.Signals))
	}
	// Output order follows the request regardless of completion order.
	for i, symbol := range symbols {
		if board.Signals[i].Symbol != symbol {
			t.Fatalf("signal %d = %q, want %q", i, board.Signals[i].Symbol, symbol)
		}
	}
	if board.Errors != nil {
		t.Fatalf("unexpected errors: %v", board.Errors)
	}
	if board.GeneratedAt.IsZero() {
		t.Fatalf("generated_at not set")
	}
}

func TestSignalBoardPartialFailure(t *testing.T) {
	market := &fakeMarket{
		bars:    testBars(25),
		failFor: map[string]error{"MSFT": errors.New("provider 500")},
	}
	svc := newTestService(market, &fakeNews{}, &fakeGenerator{}, newFakeMetrics())
	uc := NewSignalBoardUseCase(svc)

	board, err := uc.Build(context.Background(), []string{"AAPL", "MSFT", "GOOGL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.Signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(board.Signals))
	}
	if board.Signals[0].Symbol != "AAPL" || board.Signals[1].Symbol != "GOOGL" {
		t.Fatalf("unexpected order: %q, %q", board.Signals[0].Symbol, board.Signals[1].Symbol)
	}
	if len(board.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", board.Errors)
	}
	if _, ok := board.Errors["MSFT"]; !ok {
		t.Fatalf("missing error for MSFT: %v", board.Errors)
	}
}

func TestSignalBoardNoSymbols(t *testing.T) {
	svc := newTestService(&fakeMarket{}, &fakeNews{}, &fakeGenerator{}, newFakeMetrics())
	uc := NewSignalBoardUseCase(svc)
	if _, err := uc.Build(context.Background(), nil); err == nil {
		t.Fatalf("expected error")
	}
}
