package usecase

import (
	"context"
	"fmt"

	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/queue"
)

// ErrorReportType is the queue message type for aggregated error digests.
const ErrorReportType = "log.report"

// ErrorReportJob consumes aggregated error-log batches produced by the
// logger collector and emits one digest line per distinct error. Repeated
// errors (a provider failing on every refresh, say) collapse into a single
// entry with a count instead of flooding the log stream.
type ErrorReportJob struct {
	l *applogger.Logger
}

func NewErrorReportJob(l *applogger.Logger) *ErrorReportJob { return &ErrorReportJob{l: l} }

func (j *ErrorReportJob) Name() string { return "error-report" }

func (j *ErrorReportJob) Type() string { return ErrorReportType }

func (j *ErrorReportJob) Handle(ctx context.Context, payload interface{}) error {
	entries, err := queue.ParsePayload[[]applogger.AggregatedLogEntry](payload)
	if err != nil {
		return fmt.Errorf("parse error report: %w", err)
	}
	if j.l == nil {
		return nil
	}
	for _, e := range *entries {
		j.l.Warn("error digest",
			applogger.String("message", e.Message),
			applogger.String("caller", e.Caller),
			applogger.Int("count", e.Count),
			applogger.String("first_seen", e.FirstSeen.Format("15:04:05")),
			applogger.String("last_seen", e.LastSeen.Format("15:04:05")))
	}
	return nil
}

var _ queue.Job = (*ErrorReportJob)(nil)
