package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fxsim/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ JournalStore = (*SQLiteStore)(nil)

// SQLiteStore implements JournalStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS orders (
	run_id     TEXT NOT NULL,
	order_id   TEXT NOT NULL,
	pair       TEXT NOT NULL,
	side       TEXT NOT NULL,
	units      INTEGER NOT NULL,
	type       TEXT NOT NULL,
	price      TEXT,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (run_id, order_id)
);

CREATE TABLE IF NOT EXISTS trade_events (
	seq      INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id   TEXT NOT NULL,
	trade_id TEXT NOT NULL,
	pair     TEXT NOT NULL,
	units    INTEGER NOT NULL,
	price    TEXT NOT NULL,
	profit   TEXT NOT NULL,
	event    TEXT NOT NULL,
	time     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trade_events_run ON trade_events (run_id);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the journal schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveOrder records an order submission under the given run.
func (s *SQLiteStore) SaveOrder(ctx context.Context, runID string, order *domain.Order) error {
	var price any
	if order.Price != nil {
		price = order.Price.String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO orders (run_id, order_id, pair, side, units, type, price, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, order.ID, order.Pair, string(order.Side), order.Units, string(order.Type),
		price, order.CreatedAt.UnixMilli(),
	)
	return err
}

// SaveTradeEvent records a close or reduce event.
func (s *SQLiteStore) SaveTradeEvent(ctx context.Context, ev TradeEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trade_events (run_id, trade_id, pair, units, price, profit, event, time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.RunID, ev.TradeID, ev.Pair, ev.Units,
		ev.Price.String(), ev.Profit.String(), ev.Event, ev.Time.UnixMilli(),
	)
	return err
}

// ListTradeEvents returns a run's trade events in insertion order.
func (s *SQLiteStore) ListTradeEvents(ctx context.Context, runID string) ([]TradeEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT trade_id, pair, units, price, profit, event, time
		 FROM trade_events WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []TradeEvent
	for rows.Next() {
		var (
			ev            TradeEvent
			price, profit string
			ts            int64
		)
		if err := rows.Scan(&ev.TradeID, &ev.Pair, &ev.Units, &price, &profit, &ev.Event, &ts); err != nil {
			return nil, err
		}
		ev.RunID = runID
		if ev.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("corrupt price %q: %w", price, err)
		}
		if ev.Profit, err = decimal.NewFromString(profit); err != nil {
			return nil, fmt.Errorf("corrupt profit %q: %w", profit, err)
		}
		ev.Time = time.UnixMilli(ts).UTC()
		events = append(events, ev)
	}
	return events, rows.Err()
}
