package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"TradeCoin/internal/domain/models"
	"TradeCoin/internal/domain/repository"
)

// ClickHouseSignalStore implements Storage for ClickHouse. One row per
// canonical signal; queries serve the gated feed most-recent-first.
type ClickHouseSignalStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseSignalStore creates ClickHouse signal storage.
func NewClickHouseSignalStore(db *sql.DB, table string) repository.Storage {
	return &ClickHouseSignalStore{db: db, table: table}
}

const signalColumns = "id, ts, symbol, sentiment, confidence, est_change_pct, action, leverage, risk, reasoning, entry_start, entry_end, exit_start, exit_end, price"

func (s *ClickHouseSignalStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseSignalStore) Store(ctx context.Context, sig *models.CanonicalSignal) error {
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table, signalColumns)
	_, err := s.db.ExecContext(ctx, q, signalArgs(sig)...)
	return err
}

func (s *ClickHouseSignalStore) StoreBatch(ctx context.Context, signals []*models.CanonicalSignal) error {
	if len(signals) == 0 {
		return nil
	}
	// Multi-row VALUES insert to reduce round-trips. Chunked at 2000 rows.
	const chunkSize = 2000
	for start := 0; start < len(signals); start += chunkSize {
		end := start + chunkSize
		if end > len(signals) {
			end = len(signals)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*15)
		for _, sig := range signals[start:end] {
			if sig == nil || sig.CoinSymbol == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, signalArgs(sig)...)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", s.table, signalColumns, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseSignalStore) QueryLatest(ctx context.Context, symbol string, since time.Time, limit int) ([]*models.CanonicalSignal, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		conds []string
		args  []interface{}
	)
	if symbol != "" {
		conds = append(conds, "symbol = ?")
		args = append(args, strings.ToUpper(symbol))
	}
	if !since.IsZero() {
		conds = append(conds, "ts >= ?")
		args = append(args, since)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit)

	q := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY ts DESC LIMIT ?", signalColumns, s.table, where)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.CanonicalSignal
	for rows.Next() {
		var sig models.CanonicalSignal
		var confidence, estChange int32
		var sentiment, action, risk string
		if err := rows.Scan(
			&sig.ID,
			&sig.Timestamp,
			&sig.CoinSymbol,
			&sentiment,
			&confidence,
			&estChange,
			&action,
			&sig.RecommendedLeverageMultiple,
			&risk,
			&sig.Reasoning,
			&sig.OptimalEntryWindow.Start,
			&sig.OptimalEntryWindow.End,
			&sig.OptimalExitWindow.Start,
			&sig.OptimalExitWindow.End,
			&sig.CurrentPrice,
		); err != nil {
			return nil, err
		}
		sig.Sentiment = models.Sentiment(sentiment)
		sig.ConfidenceScore = int(confidence)
		sig.EstimatedPriceChangePercent = int(estChange)
		sig.RecommendedAction = models.Action(action)
		sig.RiskLevel = models.RiskLevel(risk)
		out = append(out, &sig)
	}
	return out, rows.Err()
}

func (s *ClickHouseSignalStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseSignalStore) Close() error {
	return nil // Managed by pkg
}

func signalArgs(sig *models.CanonicalSignal) []interface{} {
	return []interface{}{
		sig.ID,
		sig.Timestamp,
		sig.CoinSymbol,
		string(sig.Sentiment),
		int32(sig.ConfidenceScore),
		int32(sig.EstimatedPriceChangePercent),
		string(sig.RecommendedAction),
		sig.RecommendedLeverageMultiple,
		string(sig.RiskLevel),
		sig.Reasoning,
		sig.OptimalEntryWindow.Start,
		sig.OptimalEntryWindow.End,
		sig.OptimalExitWindow.Start,
		sig.OptimalExitWindow.End,
		sig.CurrentPrice,
	}
}
