package usecase

import (
	"context"
	"fmt"
	"time"

	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/queue"
)

const alertMessageType = "signal.alert"

// SignalAlertPayload is the queue message body for actionable signals.
type SignalAlertPayload struct {
	Symbol     string    `json:"symbol"`
	Action     string    `json:"action"`
	Confidence float64   `json:"confidence"`
	Score      float64   `json:"score"`
	Reasoning  []string  `json:"reasoning"`
	At         time.Time `json:"at"`
}

// AlertJob consumes alert messages and emits a structured log line. Webhook
// or email fan-out can hang off Handle later without touching the processor.
type AlertJob struct {
	l *applogger.Logger
}

func NewAlertJob(l *applogger.Logger) *AlertJob { return &AlertJob{l: l} }

func (j *AlertJob) Name() string { return "signal-alert" }

func (j *AlertJob) Type() string { return alertMessageType }

func (j *AlertJob) Handle(ctx context.Context, payload interface{}) error {
	alert, err := queue.ParsePayload[SignalAlertPayload](payload)
	if err != nil {
		return fmt.Errorf("parse alert payload: %w", err)
	}
	if j.l != nil {
		j.l.Info("signal alert",
			applogger.String("symbol", alert.Symbol),
			applogger.String("action", alert.Action),
			applogger.Any("confidence", alert.Confidence),
			applogger.Any("score", alert.Score),
			applogger.Strings("reasoning", alert.Reasoning))
	}
	return nil
}

var _ queue.Job = (*AlertJob)(nil)
