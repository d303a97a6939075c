// Package app boots the arena server: environment configuration, the
// logging router and its sinks, the data tables, the hub, and the HTTP
// listener, with a graceful shutdown path.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	server "astral-arena/server"
	"astral-arena/server/internal/config"
	"astral-arena/server/internal/session"
	"astral-arena/server/logging"
	"astral-arena/server/logging/sinks"
)

const shutdownGrace = 5 * time.Second

// Run blocks until the context is cancelled or the listener fails.
func Run(ctx context.Context) error {
	addr := envString("ARENA_ADDR", ":8080")
	seed := envString("ARENA_SEED", "astral-arena")
	tablesDir := os.Getenv("ARENA_TABLES_DIR")
	jsonLogPath := os.Getenv("ARENA_LOG_JSON")

	logCfg := logging.DefaultConfig()
	named := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout)},
	}
	var logFile *os.File
	if jsonLogPath != "" {
		f, err := os.OpenFile(jsonLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open json log %s: %w", jsonLogPath, err)
		}
		logFile = f
		named = append(named, logging.NamedSink{
			Name: "json",
			Sink: sinks.NewJSON(f, logCfg.JSON.FlushInterval),
		})
		logCfg.EnabledSinks = append(logCfg.EnabledSinks, "json")
	}

	router := logging.NewRouter(nil, logCfg, named)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := router.Close(closeCtx); err != nil {
			log.Printf("failed to close logging router: %v", err)
		}
		if logFile != nil {
			logFile.Close()
		}
	}()

	tables, err := loadTables(tablesDir)
	if err != nil {
		return err
	}

	hub := server.NewHub(tables, session.NewMemoryLeaderboard(), router, router, seed)

	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	srv := &http.Server{
		Addr:    addr,
		Handler: server.NewRouter(hub),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// loadTables reads the YAML data tables from dir, or uses the compiled-in
// defaults when no directory is configured. Malformed tables fail the boot.
func loadTables(dir string) (*config.Tables, error) {
	if dir == "" {
		return config.Default(), nil
	}
	tables, err := config.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load data tables from %s: %w", dir, err)
	}
	return tables, nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
