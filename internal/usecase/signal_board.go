package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
)

// SignalBoardUseCase builds the multi-symbol dashboard view by generating
// signals concurrently, one goroutine per symbol.
type SignalBoardUseCase struct {
	svc     *SignalService
	timeout time.Duration
}

func NewSignalBoardUseCase(svc *SignalService) *SignalBoardUseCase {
	return &SignalBoardUseCase{svc: svc, timeout: 30 * time.Second}
}

// Build returns a board with one entry per requested symbol. Per-symbol
// failures land in Errors without sinking the rest of the board.
func (uc *SignalBoardUseCase) Build(ctx context.Context, symbols []string) (*models.SignalBoard, error) {
	return uc.run(ctx, symbols, uc.svc.Signal)
}

// Refresh is Build with cache bypass: every symbol is regenerated.
func (uc *SignalBoardUseCase) Refresh(ctx context.Context, symbols []string) (*models.SignalBoard, error) {
	return uc.run(ctx, symbols, uc.svc.Refresh)
}

func (uc *SignalBoardUseCase) run(
	ctx context.Context,
	symbols []string,
	get func(context.Context, string) (*models.TradingSignal, error),
) (*models.SignalBoard, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbols required")
	}

	// Overall timeout
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	board := &models.SignalBoard{
		Symbols:     symbols,
		GeneratedAt: time.Now().UTC(),
		Errors:      map[string]string{},
	}

	type item struct {
		symbol string
		sig    *models.TradingSignal
		err    error
	}
	ch := make(chan item, len(symbols))
	var wg sync.WaitGroup

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sig, err := get(ctx, symbol)
			ch <- item{symbol, sig, err}
		}(symbol)
	}
	go func() { wg.Wait(); close(ch) }()

	bySymbol := make(map[string]*models.TradingSignal, len(symbols))
	for it := range ch {
		if it.err != nil {
			board.Errors[it.symbol] = it.err.Error()
			continue
		}
		bySymbol[it.symbol] = it.sig
	}

	// Stable output order regardless of goroutine completion.
	for _, symbol := range symbols {
		if sig, ok := bySymbol[symbol]; ok {
			board.Signals = append(board.Signals, sig)
		}
	}

	if len(board.Errors) == 0 {
		board.Errors = nil
	}
	return board, nil
}
