package usecase

import (
	"context"
	"sync"
	"time"

	drepo "StockPulse/internal/domain/repository"
	mid "StockPulse/internal/middleware"
	applogger "StockPulse/pkg/logger"
)

// SignalRefresher periodically regenerates signals for the configured
// watchlist and hands fresh ones to the publish pipeline.
type SignalRefresher struct {
	svc      *SignalService
	proc     *SignalProcessor
	metrics  drepo.Metrics
	pipe     *mid.PublishPipeline
	cast     drepo.Broadcaster
	symbols  []string
	interval time.Duration
	stopCh   chan struct{}
	done     chan struct{}
	started  bool
	mu       sync.Mutex
	l        *applogger.Logger
}

// NewSignalRefresher creates a new SignalRefresher instance.
func NewSignalRefresher(svc *SignalService, proc *SignalProcessor, metrics drepo.Metrics, pipe *mid.PublishPipeline, symbols []string, interval time.Duration) *SignalRefresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SignalRefresher{
		svc:      svc,
		proc:     proc,
		metrics:  metrics,
		pipe:     pipe,
		symbols:  append([]string(nil), symbols...),
		interval: interval,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// SetBroadcaster wires the dashboard fan-out for fresh signals.
func (r *SignalRefresher) SetBroadcaster(b drepo.Broadcaster) { r.cast = b }

// SetLogger injects a structured logger.
func (r *SignalRefresher) SetLogger(l *applogger.Logger) { r.l = l }

// IsRunning returns true if the refresh loop has been started.
func (r *SignalRefresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

func (r *SignalRefresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = true
	r.mu.Unlock()

	if r.pipe != nil {
		r.pipe.Start(ctx)
	}
	go r.run(ctx)
	return nil
}

func (r *SignalRefresher) run(ctx context.Context) {
	defer close(r.done)
	// prime the board before the first tick
	r.refreshAll(ctx)
	tick := time.NewTicker(r.interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-tick.C:
			r.refreshAll(ctx)
		}
	}
}

func (r *SignalRefresher) refreshAll(ctx context.Context) {
	start := time.Now()
	var wg sync.WaitGroup
	for _, symbol := range r.symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			r.refreshOne(ctx, symbol)
		}(symbol)
	}
	wg.Wait()
	r.metrics.RecordLatency("refresh_cycle", time.Since(start).Seconds())
	if r.l != nil {
		r.l.Info("signals refreshed",
			applogger.Int("symbols", len(r.symbols)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
}

func (r *SignalRefresher) refreshOne(ctx context.Context, symbol string) {
	sig, err := r.svc.Refresh(ctx, symbol)
	if err != nil {
		r.metrics.RecordError("refresh")
		if r.l != nil {
			r.l.Warn("signal refresh_error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return
	}
	if r.pipe != nil {
		_ = r.pipe.Process(ctx, sig)
	} else if r.proc != nil {
		_ = r.proc.Process(ctx, sig)
	}
	if r.cast != nil {
		r.cast.Broadcast(sig)
	}
}

func (r *SignalRefresher) Stop() error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = false
	r.mu.Unlock()
	close(r.stopCh)
	return nil
}

// Processor returns the underlying SignalProcessor for lifecycle management.
func (r *SignalRefresher) Processor() *SignalProcessor { return r.proc }

// Shutdown stops the pipeline and waits for the refresh loop to exit.
func (r *SignalRefresher) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	running := r.started
	r.mu.Unlock()
	if err := r.Stop(); err != nil {
		return err
	}
	if r.pipe != nil {
		r.pipe.Stop()
	}
	if !running {
		return nil
	}
	select {
	case <-r.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
