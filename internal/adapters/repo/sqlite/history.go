// Package sqlite stores completed chat and recommendation exchanges.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/bnema/fitness-advisor-cli/internal/ports"
	_ "modernc.org/sqlite"
)

const (
	historyDirMode   = 0o700
	defaultListLimit = 20
)

var openDB = sql.Open

type HistoryStore struct {
	db    *sql.DB
	clock ports.Clock
}

var _ ports.ExchangeRepository = (*HistoryStore)(nil)

func NewHistoryStore(path string, clock ports.Clock) (*HistoryStore, error) {
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	if err := os.MkdirAll(filepath.Dir(path), historyDirMode); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history pragma %q: %w", p, err)
		}
	}

	store := &HistoryStore{db: db, clock: clock}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}

	return store, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func (s *HistoryStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS exchanges (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT    NOT NULL,
			backend    TEXT    NOT NULL,
			action     TEXT    NOT NULL,
			category   TEXT    NOT NULL DEFAULT '',
			input      TEXT    NOT NULL,
			reply      TEXT    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_exchanges_created ON exchanges(created_at);
	`)
	return err
}

func (s *HistoryStore) Append(ctx context.Context, exchange domain.Exchange) (domain.Exchange, error) {
	if err := ctx.Err(); err != nil {
		return domain.Exchange{}, err
	}

	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = s.clock.Now()
	}
	exchange.CreatedAt = exchange.CreatedAt.UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO exchanges (created_at, backend, action, category, input, reply) VALUES (?, ?, ?, ?, ?, ?)`,
		exchange.CreatedAt.Format(time.RFC3339Nano),
		string(exchange.Backend),
		string(exchange.Action),
		string(exchange.Category),
		exchange.Input,
		exchange.Reply,
	)
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("insert exchange: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("read exchange id: %w", err)
	}
	exchange.ID = id

	return exchange, nil
}

// Latest returns the most recent exchanges, newest first.
func (s *HistoryStore) Latest(ctx context.Context, limit int) ([]domain.Exchange, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, backend, action, category, input, reply FROM exchanges ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query exchanges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var exchanges []domain.Exchange
	for rows.Next() {
		var (
			exchange  domain.Exchange
			createdAt string
			backend   string
			action    string
			category  string
		)
		if err := rows.Scan(&exchange.ID, &createdAt, &backend, &action, &category, &exchange.Input, &exchange.Reply); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}

		exchange.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse exchange %d timestamp: %w", exchange.ID, err)
		}
		exchange.Backend = domain.BackendKind(backend)
		exchange.Action = domain.ExchangeAction(action)
		exchange.Category = domain.Category(category)
		exchanges = append(exchanges, exchange)
	}

	return exchanges, rows.Err()
}
