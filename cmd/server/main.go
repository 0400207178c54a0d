/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the recurrence rule server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment), then apply flags
  2. Initialize SQLite store
  3. Import rules from -rules (optional), load stored rules
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: RECURRENCE_PORT or 8080)
  -db      SQLite database path (default: RECURRENCE_DB or recurrence.db)
           Use ":memory:" for in-memory database
  -rules   YAML file of rule documents to import on startup
  -env     .env file to load instead of ./.env

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (RECURRENCE_SHUTDOWN_TIMEOUT)
  3. Close database connection
  4. Exit

EXAMPLES:
  ./server -db="./data/rules.db"
  ./server -db=":memory:" -rules=./rules.yaml
  RECURRENCE_LOG_LEVEL=debug ./server -port=3000

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"

	"github.com/warp/recurrence/api"
	"github.com/warp/recurrence/config"
	"github.com/warp/recurrence/store/sqlite"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "recurrence",
		ReportTimestamp: true,
	})

	// Flags
	port := flag.String("port", "", "HTTP server port (overrides RECURRENCE_PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides RECURRENCE_DB)")
	rulesFile := flag.String("rules", "", "YAML rule documents to import on startup")
	envFile := flag.String("env", "", ".env file to load")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	level, _ := cfg.Level()
	logger.SetLevel(level)

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("Failed to initialize database", "error", err, "path", cfg.DBPath)
	}
	defer store.Close()

	handler := api.NewHandler(store, logger.WithPrefix("api"))

	if *rulesFile != "" {
		if err := importRules(handler, *rulesFile); err != nil {
			logger.Fatal("Failed to import rules", "error", err, "file", *rulesFile)
		}
	}
	if _, err := handler.LoadRules(context.Background()); err != nil {
		logger.Warn("Failed to load rules", "error", err)
	}

	router := api.NewRouter(handler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", "addr", "http://localhost:"+cfg.Port, "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		return
	}

	logger.Info("Server stopped")
}

func importRules(h *api.Handler, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	docs, err := h.Factory.ParseRulesYAML(f)
	if err != nil {
		return err
	}
	return h.ImportRules(context.Background(), docs)
}
