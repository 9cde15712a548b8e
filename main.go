package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/shelfmate/internal/config"
	"github.com/msomdec/shelfmate/internal/handler"
	"github.com/msomdec/shelfmate/internal/repository"
	"github.com/msomdec/shelfmate/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := repository.Open(connectCtx, cfg)
	cancelConnect()
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("store ready", "driver", cfg.StoreDriver)

	accountService := service.NewAccountService(store.Users(), store.Books(), cfg.BcryptCost)
	bookService := service.NewBookService(store.Users(), store.Books())
	friendService := service.NewFriendService(store.Users(), store.Books())

	var limiter handler.Limiter
	if cfg.AuthRateLimit > 0 {
		tb := service.NewPerMinuteLimiter(cfg.AuthRateLimit)
		defer tb.Stop()
		limiter = tb
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, store, accountService, bookService, friendService, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Middleware(mux, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
