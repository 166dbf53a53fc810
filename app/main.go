package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/api"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/cfg"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/config"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/feed"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/karma"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/storage"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting The Nonlinear Library feed service", "version", appCfg.Version)

	store, cleanup, err := newStore(appCfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	slog.Info("Loading feed configurations", "dir", appCfg.FeedsDir)
	loader := config.NewLoader(appCfg.FeedsDir)
	configs, err := loader.LoadAll()
	if err != nil {
		slog.Error("Failed to load feed configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded feed configurations", "count", len(configs))

	fetchClient := &http.Client{Timeout: time.Duration(appCfg.FetchTimeout) * time.Second}
	karmaClient := &http.Client{Timeout: time.Duration(appCfg.KarmaTimeout) * time.Second}

	fetcher := feed.NewFetcher(fetchClient, appCfg.UserAgent)
	filterer := feed.NewFilterer()
	rewriter := feed.NewRewriter()
	merger := feed.NewMerger(store)
	scorer := karma.New(karmaClient, appCfg.UserAgent)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(configs, fetcher, filterer, rewriter, merger, store, scorer)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(configs, store, scheduler)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// newStore picks the storage backend: the configured GCS bucket in
// production, the local filesystem otherwise.
func newStore(appCfg *cfg.Cfg) (storage.Store, func(), error) {
	if appCfg.GCPBucket == "" {
		slog.Info("Using local storage", "path", appCfg.LocalStoragePath)
		if err := os.MkdirAll(appCfg.LocalStoragePath, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create storage dir: %w", err)
		}
		return storage.NewLocal(appCfg.LocalStoragePath), func() {}, nil
	}

	slog.Info("Using Cloud Storage", "bucket", appCfg.GCPBucket)
	client, err := gcs.NewClient(context.Background(), option.WithUserAgent(appCfg.UserAgent))
	if err != nil {
		return nil, nil, fmt.Errorf("create storage client: %w", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			slog.Warn("Failed to close storage client", "error", err)
		}
	}
	return storage.NewGCS(client, appCfg.GCPBucket), cleanup, nil
}
