// Package sqlite implements the ledger on a local SQLite file, for
// deployments that run without Google credentials. The append-only
// contract still holds: rows are inserted, never updated or deleted.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"kassabot/internal/core"
	"kassabot/internal/ledger"
)

type Store struct {
	db *sql.DB
}

var _ ledger.Backend = (*Store)(nil)

// Open creates (or opens) the database at dbPath and applies migrations.
func Open(dbPath string) (*Store, error) {
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
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Append implements ledger.Appender. The amount is stored as its decimal
// string to keep it exact.
func (s *Store) Append(ctx context.Context, e core.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (recorded_at, sender_id, category, amount, note)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Timestamp.UTC().Format(time.RFC3339), e.SenderID, e.Category, e.Amount.String(), e.Note)
	if err != nil {
		return "", fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Query implements ledger.Querier. Stored timestamps are UTC RFC3339, so
// their lexical order matches time order and the range predicate rides
// the recorded_at index.
func (s *Store) Query(ctx context.Context, p core.Period) ([]core.Entry, error) {
	query := `SELECT recorded_at, sender_id, category, amount, note FROM entries`
	var args []any
	if !p.IsZero() {
		query += ` WHERE recorded_at >= ? AND recorded_at < ?`
		args = append(args,
			p.Start.UTC().Format(time.RFC3339),
			p.End.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		var (
			recordedAt string
			e          core.Entry
			amount     string
		)
		if err := rows.Scan(&recordedAt, &e.SenderID, &e.Category, &amount, &e.Note); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Timestamp, err = time.Parse(time.RFC3339, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
		}
		e.Amount, err = core.ParseAmount(amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}
