package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/helprobot/internal/config"
	"github.com/JonMunkholm/helprobot/internal/core"
	_ "github.com/JonMunkholm/helprobot/internal/core/brands" // Register all brand pages
	"github.com/JonMunkholm/helprobot/internal/i18n"
	"github.com/JonMunkholm/helprobot/internal/logging"
	"github.com/JonMunkholm/helprobot/internal/store"
	"github.com/JonMunkholm/helprobot/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"default_language", cfg.I18n.DefaultLanguage,
		"admin_enabled", cfg.Admin.Enabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Connect to the record store selected by the database URL
	ctx := context.Background()
	st, backend, err := store.Open(ctx, store.Options{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	count, err := st.CountErrorCodes(ctx)
	if err != nil {
		slog.Error("failed to query store", "backend", backend, "error", err)
		os.Exit(1)
	}
	slog.Info("connected to store", "backend", backend, "error_codes", count)

	tr, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		slog.Error("failed to load translations", "error", err)
		os.Exit(1)
	}

	// Log registered brand pages
	slog.Info("brands registered", "count", core.BrandCount())
	for _, bp := range core.BrandPages() {
		slog.Debug("brand page", "key", bp.Key, "name", bp.Name, "searchable", bp.Searchable)
	}

	server := web.NewServer(cfg, st, tr)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		st.Close()
		os.Exit(1)
	}
	<-done
}
