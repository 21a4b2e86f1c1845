package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"StockSimulator/internal/logger"
	"StockSimulator/internal/model"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the trade journal to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logger.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *logger.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets readers inspect the journal while a session writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", logger.StringField("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id         TEXT PRIMARY KEY,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			side       TEXT NOT NULL,
			shares     INTEGER NOT NULL,
			price      TEXT NOT NULL,
			total      TEXT NOT NULL,
			cash_after TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(timestamp)`,

		`CREATE TABLE IF NOT EXISTS quotes (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			price     REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_symbol_ts ON quotes(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTrade(t *model.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trades
		(id, timestamp, symbol, side, shares, price, total, cash_after)
		VALUES (?,?,?,?,?,?,?,?)`,
		t.ID, t.Time.UnixNano(), t.Symbol, string(t.Side), t.Shares,
		t.Price.String(), t.Total.String(), t.CashAfter.String(),
	)
	return err
}

func (r *SQLiteRecorder) RecordQuote(q *model.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO quotes (timestamp, symbol, price) VALUES (?,?,?)`,
		q.Time.UnixNano(), q.Symbol, q.Price,
	)
	return err
}

// Trades returns up to limit journaled trades, oldest first.
func (r *SQLiteRecorder) Trades(limit int) ([]model.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, symbol, side, shares, price, total, cash_after
		FROM (SELECT * FROM trades ORDER BY timestamp DESC LIMIT ?) ORDER BY timestamp ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var out []model.Trade
	for rows.Next() {
		var (
			t                     model.Trade
			ts                    int64
			side                  string
			price, total, cashAft string
		)
		if err := rows.Scan(&t.ID, &ts, &t.Symbol, &side, &t.Shares, &price, &total, &cashAft); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Time = time.Unix(0, ts)
		t.Side = model.Side(side)
		if t.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		if t.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parse total: %w", err)
		}
		if t.CashAfter, err = decimal.NewFromString(cashAft); err != nil {
			return nil, fmt.Errorf("parse cash: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
