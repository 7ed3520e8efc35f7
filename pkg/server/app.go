package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockPulse/internal/handler/ws"
	"StockPulse/internal/usecase"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
	pkgqueue "StockPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	refresher   *usecase.SignalRefresher
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	alertQueue  *pkgqueue.RedisQueue
	hub         *ws.Hub
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	SignalProc  *usecase.SignalProcessor
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	refresher *usecase.SignalRefresher,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		refresher: refresher,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// SetHub allows DI to inject the websocket hub.
func (a *App) SetHub(h *ws.Hub) { a.hub = h }

// SetAlertQueue allows DI to inject the alert worker queue.
func (a *App) SetAlertQueue(q *pkgqueue.RedisQueue) { a.alertQueue = q }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})

	// Ship deduplicated error digests through the worker queue
	if a.alertQueue != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          usecase.ErrorReportType,
			Publisher:      a.alertQueue,
		})
		defer l.RemoveCollector()
	}

	// Setup Echo HTTP server using pkg/http and register routes via handler
	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Attach the websocket hub to the same Echo instance and feed it
	// from the refresher so every regenerated signal is streamed.
	if a.hub != nil {
		a.hub.SetLogger(l)
		a.hub.RegisterRoutes(a.httpServer.Echo())
		if a.refresher != nil {
			a.refresher.SetBroadcaster(a.hub)
		}
	}

	// Start alert workers
	if a.alertQueue != nil {
		if err := a.alertQueue.Start(); err != nil {
			l.Error("alert queue start error", applogger.Error(err))
		} else {
			l.Info("alert queue started", applogger.Int("workers", a.cfg.Queue.Workers))
		}
	}

	// Start refresher
	if a.refresher != nil && a.cfg.Signals.AutoRefresh {
		a.refresher.SetLogger(l)
		if err := a.refresher.Start(ctx); err != nil {
			l.Error("signal refresher start error", applogger.Error(err))
		} else {
			l.Info("signal refresher started", applogger.Strings("symbols", a.cfg.Signals.Symbols))
		}
	}

	// Start consumer when the kafka backend feeds ClickHouse through it
	if a.consumer != nil && a.kh != nil && a.cfg.Backend.Type == "kafka" {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// best-effort logging via stdout
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop refresher (pipeline + loop)
	if a.refresher != nil {
		if err := a.refresher.Shutdown(ctx); err != nil {
			l.Warn("refresher stop error", applogger.Error(err))
		}
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Disconnect websocket clients after the listener is down
	if a.hub != nil {
		a.hub.Close()
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Stop alert workers once nothing can enqueue anymore
	if a.alertQueue != nil {
		if err := a.alertQueue.Stop(ctx); err != nil {
			l.Warn("alert queue stop error", applogger.Error(err))
		}
	}

	// Close signal processor resources (publisher/storage)
	if a.SignalProc != nil {
		a.SignalProc.Close()
	}

	l.Info("shutdown complete")
	return nil
}
