// Package storage is the SQLite ledger backend. Unlike the flat-file
// backend it gets transactional writes for free: the log append and the
// balance update commit together or not at all.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"ledgerd/internal/core"
	"ledgerd/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var known int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE name = ?`, t.Category).Scan(&known)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("check category: %w", err)
	}
	if known == 0 {
		return core.Transaction{}, fmt.Errorf("category %q: %w", t.Category, core.ErrUnknownCategory)
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}

	tags, err := json.Marshal(t.Tags)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("marshal tags: %w", err)
	}

	// Stored as unix nanoseconds: string-encoded timestamps do not compare
	// correctly in SQL (fractional seconds sort before the zone suffix),
	// which would drop in-window rows from filtered reads.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, amount, category, description, timestamp, tags) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Amount, t.Category, t.Description, t.Timestamp.UnixNano(), string(tags))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE account SET balance = balance + ? WHERE id = 1`, t.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) ListTransactions(ctx context.Context, f ledger.Filter) ([]core.Transaction, error) {
	query := `SELECT id, amount, category, description, timestamp, tags FROM transactions`
	var conds []string
	var args []any
	if f.Category != "" {
		conds = append(conds, `category = ?`)
		args = append(args, f.Category)
	}
	if !f.Start.IsZero() {
		conds = append(conds, `timestamp >= ?`)
		args = append(args, f.Start.UnixNano())
	}
	if !f.End.IsZero() {
		conds = append(conds, `timestamp <= ?`)
		args = append(args, f.End.UnixNano())
	}
	for i, c := range conds {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var t core.Transaction
	var ts int64
	var tags string
	if err := rows.Scan(&t.ID, &t.Amount, &t.Category, &t.Description, &ts, &tags); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Timestamp = time.Unix(0, ts)
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return core.Transaction{}, fmt.Errorf("decode tags: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) Categories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, type, icon FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.Name, &c.Type, &c.Icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

func (s *SQLiteStore) Balance(ctx context.Context) (float64, error) {
	var balance float64
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM account WHERE id = 1`).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return balance, nil
}

func (s *SQLiteStore) Summary(ctx context.Context) (core.AccountSummary, error) {
	balance, err := s.Balance(ctx)
	if err != nil {
		return core.AccountSummary{}, err
	}
	txs, err := s.ListTransactions(ctx, ledger.Filter{})
	if err != nil {
		return core.AccountSummary{}, err
	}
	return core.Summarize(balance, txs), nil
}
