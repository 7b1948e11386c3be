// Package backend selects and builds the configured ledger backend.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"kassabot/internal/config"
	"kassabot/internal/ledger"
	"kassabot/internal/ledger/google"
	"kassabot/internal/ledger/memory"
	"kassabot/internal/ledger/sqlite"
)

// Type identifies a ledger backend implementation.
type Type string

const (
	Sheets Type = "sheets"
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

func (t Type) IsValid() bool {
	switch t {
	case Sheets, SQLite, Memory:
		return true
	}
	return false
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result holds the ready backend and its optional cleanup.
type Result struct {
	Backend ledger.Backend
	Cleanup CleanupFunc
}

// New builds the backend named by cfg.DataBackend.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t := Type(cfg.DataBackend)
	switch t {
	case Sheets:
		creds, err := cfg.GoogleCredentials()
		if err != nil {
			return nil, fmt.Errorf("load google credentials: %w", err)
		}
		cli, err := google.New(ctx, google.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: creds,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize sheets backend: %w", err)
		}
		logger.Info("initialized Google Sheets backend",
			"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
		return &Result{Backend: cli}, nil

	case SQLite:
		store, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Backend: store, Cleanup: store.Close}, nil

	case Memory:
		logger.Info("initialized memory backend")
		return &Result{Backend: memory.New()}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}
