package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	pkgch "StockPulse/pkg/clickhouse"
	applogger "StockPulse/pkg/logger"
)

// CHSignalStore implements SignalStore backed by ClickHouse.
type CHSignalStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHSignalStore(ch *pkgch.Client, table string) *CHSignalStore {
	return &CHSignalStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHSignalStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSignalStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

const signalColumns = "event_id, symbol, action, confidence, score, reasoning, " +
	"latest_close, price_change, ma5, ma20, trend_strength, " +
	"sentiment_compound, volume_ratio, volatility_trend, generated_at"

const signalPlaceholders = "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

func signalArgs(sig *models.TradingSignal) ([]interface{}, error) {
	reasoning, err := json.Marshal(sig.Reasoning)
	if err != nil {
		return nil, fmt.Errorf("encode reasoning: %w", err)
	}
	// Idempotency key: symbol plus generation instant
	eventID := fmt.Sprintf("%s-%d", sig.Symbol, sig.GeneratedAt.UnixNano())
	return []interface{}{
		eventID,
		sig.Symbol,
		sig.Action,
		sig.Confidence,
		sig.Score,
		string(reasoning),
		sig.Metrics.Price.LatestClose,
		sig.Metrics.Price.PriceChange,
		sig.Metrics.Price.MA5,
		sig.Metrics.Price.MA20,
		sig.Metrics.Price.TrendStrength,
		sig.Metrics.Sentiment.Compound,
		sig.Metrics.Volume.Ratio,
		sig.Metrics.Volatility.Trend,
		sig.GeneratedAt,
	}, nil
}

func (s *CHSignalStore) Store(ctx context.Context, sig *models.TradingSignal) error {
	args, err := signalArgs(sig)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", s.table, signalColumns, signalPlaceholders)
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_signal error",
				applogger.String("symbol", sig.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store signal: %w", err)
	}
	return nil
}

func (s *CHSignalStore) StoreBatch(ctx context.Context, signals []*models.TradingSignal) error {
	if len(signals) == 0 {
		return nil
	}
	// Batch insert using VALUES multi-row to reduce round-trips.
	const chunkSize = 500
	for start := 0; start < len(signals); start += chunkSize {
		end := start + chunkSize
		if end > len(signals) {
			end = len(signals)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*15)
		for _, sig := range signals[start:end] {
			if sig == nil || sig.Symbol == "" {
				continue
			}
			a, err := signalArgs(sig)
			if err != nil {
				return err
			}
			values = append(values, signalPlaceholders)
			args = append(args, a...)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", s.table, signalColumns, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("store batch: %w", err)
		}
	}
	return nil
}

// History returns the most recent stored signals for symbol, newest first.
func (s *CHSignalStore) History(ctx context.Context, symbol string, limit int) ([]*models.TradingSignal, error) {
	start := time.Now()
	const qtpl = `
        SELECT symbol, action, confidence, score, reasoning,
               latest_close, price_change, ma5, ma20, trend_strength,
               sentiment_compound, volume_ratio, volatility_trend, generated_at
        FROM %s
        WHERE symbol = ?
        ORDER BY generated_at DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse signal_history query error",
				applogger.String("symbol", symbol),
				applogger.Int("limit", limit),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("signal history: %w", err)
	}
	defer rows.Close()

	out := make([]*models.TradingSignal, 0, limit)
	for rows.Next() {
		var sig models.TradingSignal
		var reasoning string
		var generatedAt time.Time
		if err := rows.Scan(
			&sig.Symbol, &sig.Action, &sig.Confidence, &sig.Score, &reasoning,
			&sig.Metrics.Price.LatestClose, &sig.Metrics.Price.PriceChange,
			&sig.Metrics.Price.MA5, &sig.Metrics.Price.MA20, &sig.Metrics.Price.TrendStrength,
			&sig.Metrics.Sentiment.Compound, &sig.Metrics.Volume.Ratio,
			&sig.Metrics.Volatility.Trend, &generatedAt,
		); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse signal_history scan error",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		if reasoning != "" {
			if err := json.Unmarshal([]byte(reasoning), &sig.Reasoning); err != nil && s.l != nil {
				s.l.Warn("clickhouse signal_history reasoning_decode_error",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
		}
		sig.GeneratedAt = generatedAt.UTC()
		out = append(out, &sig)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse signal_history rows error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse signal_history ok",
			applogger.String("symbol", symbol),
			applogger.Int("limit", limit),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHSignalStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHSignalStore) Close() error {
	return nil // Managed by pkg
}

var _ domrepo.SignalStore = (*CHSignalStore)(nil)
