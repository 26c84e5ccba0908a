package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/existflow/tasktrack/internal/config"
	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/internal/storage"
	"github.com/existflow/tasktrack/internal/store"
	"github.com/existflow/tasktrack/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	addr := cfg.Server.Addr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Storage.Driver = config.DriverPostgres
		cfg.Storage.DSN = dbURL
	}
	if cfg.Storage.Driver != config.DriverPostgres {
		log.Fatalf("Server requires the postgres storage driver, set DATABASE_URL")
	}

	lc := cfg.Logger()
	lc.Console = true
	if err := logger.Init(lc); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Close()
	}()

	backend, err := server.OpenPostgres(cfg.Storage.DSN, cfg.Storage.PollInterval)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	st := store.New(storage.NewAdapter(backend),
		store.WithKey(cfg.Storage.Key),
		store.WithInterval(cfg.RecomputeInterval),
	)
	defer st.Close()

	srv := server.New(st, server.WithLanguage(cfg.Language()))
	defer func() {
		_ = srv.Close()
	}()
	st.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("TaskTrack API server starting on %s", addr)
	if err := srv.Run(ctx, addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
