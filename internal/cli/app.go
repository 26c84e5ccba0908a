package cli

import (
	"fmt"
	"io"

	"github.com/existflow/tasktrack/internal/config"
	"github.com/existflow/tasktrack/internal/db"
	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/internal/storage"
	"github.com/existflow/tasktrack/internal/store"
	"github.com/existflow/tasktrack/server"
)

// app bundles the store with the backend it was opened over
type app struct {
	cfg     *config.Config
	backend storage.Backend
	closer  io.Closer
	store   *store.Store
}

// openBackend opens the key-value backend selected by cfg
func openBackend(cfg *config.Config) (storage.Backend, io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return storage.NewMemory(), nil, nil
	case config.DriverPostgres:
		b, err := server.OpenPostgres(cfg.Storage.DSN, cfg.Storage.PollInterval)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		return b, b, nil
	default:
		path := cfg.Storage.Path
		if path == "" {
			p, err := db.DefaultDBPath()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		d, err := db.Open(path, db.WithPollInterval(cfg.Storage.PollInterval))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		return d, d, nil
	}
}

// openApp opens storage and loads the task collection
func openApp(cfg *config.Config) (*app, error) {
	backend, closer, err := openBackend(cfg)
	if err != nil {
		logger.Error("Failed to open storage", logger.F("driver", cfg.Storage.Driver), logger.Err(err))
		return nil, err
	}

	st := store.New(storage.NewAdapter(backend),
		store.WithKey(cfg.Storage.Key),
		store.WithInterval(cfg.RecomputeInterval),
	)
	st.Init()

	logger.Debug("Storage opened", logger.F("driver", cfg.Storage.Driver))
	return &app{cfg: cfg, backend: backend, closer: closer, store: st}, nil
}

// Close stops the store and releases the backend
func (a *app) Close() {
	a.store.Close()
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			logger.Warn("Failed to close storage", logger.Err(err))
		}
	}
}
