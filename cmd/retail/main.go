// Package main runs the skincare retail HTTP server over the flat data files.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "net/http/pprof"

	"github.com/abgdnv/glowcart/internal/app"
	"github.com/abgdnv/glowcart/internal/config"
	"github.com/abgdnv/glowcart/internal/store"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads the data files, starts the HTTP and pprof servers and flushes
// pending writes once they stop.
func run(ctx context.Context) error {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	fileStore := store.NewFileStore(store.Files{
		Dir:      cfg.Storage.Dir,
		Users:    cfg.Storage.UsersFile,
		Products: cfg.Storage.ProductsFile,
		Orders:   cfg.Storage.OrdersFile,
	}, logger)

	snap, err := fileStore.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load data files: %w", err)
	}
	logger.Info("Data files loaded",
		slog.Int("products", snap.Catalog.Len()),
		slog.Int("users", snap.Users.Len()),
		slog.Int("orders", snap.Orders.Len()),
		slog.Int("skipped", snap.Skipped))

	deps := app.SetupDependencies(snap, fileStore, cfg, logger)
	defer func() {
		if err := deps.Shop.Flush(); err != nil {
			logger.Error("Pending writes were lost", slog.Int("pending", deps.Shop.PendingWrites()), slog.String("error", err.Error()))
		}
	}()

	httpServer := app.SetupHttpServer(deps, cfg)
	pprofServer := &http.Server{
		Addr:              cfg.PProf.Addr,
		ReadHeaderTimeout: cfg.HTTPServer.Timeout.ReadHeader,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.Timeout.Shutdown)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.Timeout.Shutdown)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	} else {
		logger.Info("Pprof server is disabled")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// newLogger creates a JSON slog.Logger with the given level.
func newLogger(level string) *slog.Logger {
	logLevel := toLevel(level)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: logLevel == slog.LevelDebug,
		Level:     logLevel,
	}))
}

func toLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
