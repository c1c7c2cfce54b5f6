package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/auth"
	"github.com/adityakumar60853/nirmaan/internal/catalog"
	"github.com/adityakumar60853/nirmaan/internal/config"
	"github.com/adityakumar60853/nirmaan/internal/db"
	"github.com/adityakumar60853/nirmaan/internal/logging"
	"github.com/adityakumar60853/nirmaan/internal/metrics"
	"github.com/adityakumar60853/nirmaan/internal/middleware"
	"github.com/adityakumar60853/nirmaan/internal/server"
	"github.com/adityakumar60853/nirmaan/internal/token"
)

// set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	fs := pflag.NewFlagSet("nirmaan", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logging.Setup("nirmaan", "text", "info", nil).Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup("nirmaan", cfg.LogFormat, cfg.LogLevel, nil).With("version", version)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logging.LogError(ctx, logger, "server exited", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	gdb, err := db.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	if err := account.Migrate(gdb); err != nil {
		return err
	}
	if err := catalog.Migrate(gdb); err != nil {
		return err
	}

	hasher, err := auth.NewHasher(cfg.BcryptCost, cfg.HashWorkers)
	if err != nil {
		return err
	}
	tokens, err := token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return err
	}

	handler := server.NewRouter(server.Deps{
		Auth:           auth.NewService(account.NewGormStore(gdb), hasher, tokens, logger),
		Catalog:        catalog.NewGormStore(gdb),
		Tokens:         tokens,
		Limiter:        middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Registry:       metrics.NewRegistry(),
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("0.0.0.0", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
