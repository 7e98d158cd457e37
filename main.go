package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/hardbanrecords/lab-server/cliparse"
	"github.com/hardbanrecords/lab-server/db"
	"github.com/hardbanrecords/lab-server/middleware"
	"github.com/hardbanrecords/lab-server/router"
	"github.com/hardbanrecords/lab-server/storage"
)

func main() {
	var err error

	// Load .env if present; real environment wins
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Apply pending migrations; any failure aborts startup
	if err := db.Migrate(dbConn); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	version, err := db.Version(dbConn)
	if err != nil {
		slog.Error("migration version check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "version", version)

	// Object storage is optional; uploads respond 503 without it
	var store *storage.Store
	if cfg.StorageConfigured() {
		store, err = storage.New(cfg)
		if err != nil {
			slog.Error("storage client failed", "error", err)
			os.Exit(1)
		}
		if err := store.EnsureBucket(context.Background()); err != nil {
			slog.Error("storage bucket check failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Object storage ready", "bucket", cfg.StorageBucket)
	} else {
		slog.Warn("Object storage not configured; uploads disabled")
	}

	// Create router
	mux := router.NewRouter(dbConn, cfg, store)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
