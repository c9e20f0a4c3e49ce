package backend

import (
	"fmt"
	"log/slog"

	"ledgerd/internal/config"
	"ledgerd/internal/ledger/jsonfile"
	"ledgerd/internal/storage"
)

// Open creates the ledger store selected by the configuration.
func Open(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backendType := Type(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch backendType {
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite store: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil

	case JSONBackend:
		store, err := jsonfile.Open(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize JSON store: %w", err)
		}
		logger.Info("Initialized JSON file backend", "data_dir", cfg.DataDir)
		return &Result{Store: store, Cleanup: store.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", backendType)
	}
}
