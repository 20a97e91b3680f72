// Package main is the entry point for the RSAI ingestion server. It loads
// configuration, connects to services, starts the ingestion workers and
// serves the HTTP API with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rsai/internal/ai"
	"rsai/internal/cache"
	"rsai/internal/config"
	"rsai/internal/database"
	"rsai/internal/extract"
	"rsai/internal/handlers"
	"rsai/internal/ingest"
	"rsai/internal/router"
	"rsai/internal/storage"
	"rsai/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	// Connect to PostgreSQL and run pending migrations.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey for the category index cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	indexCache := cache.NewIndexCache(valkeyClient, cache.DefaultIndexTTL)

	// Object storage holds the uploaded files the pipeline reads back, so
	// unlike a cache it is not optional.
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		slog.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}
	if storageClient == nil {
		slog.Error("object storage not configured — set S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY")
		os.Exit(1)
	}
	slog.Info("object storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)

	// Data stores.
	categoryStore := store.NewCategoryStore(db)
	documentStore := store.NewDocumentStore(db)
	chunkStore := store.NewChunkStore(db)

	// Embedding provider registry.
	registry := ai.NewRegistry(cfg.EmbedProvider, map[string]ai.ProviderConfig{
		"openai": {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"gemini": {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
	})
	slog.Info("embedding providers initialized",
		"active", registry.Name(),
		"available", registry.Available(),
	)

	chunker, err := ingest.NewChunker(ingest.DefaultChunkSize, ingest.DefaultChunkOverlap)
	if err != nil {
		slog.Error("invalid chunker configuration", "error", err)
		os.Exit(1)
	}

	// Ingestion pipeline and worker pool.
	pipeline := ingest.New(
		documentStore,
		chunkStore,
		storageClient,
		extract.NewDocconvExtractor(),
		chunker,
		ingest.NewBatcher(registry),
		indexCache,
		cfg.IngestStageTimeout,
	)

	// Workers run on a background context so a shutdown signal drains
	// in-flight ingestions via Close instead of cancelling them mid-stage.
	pipeline.Start(context.Background(), cfg.IngestWorkers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := handlers.NewAPI(categoryStore, documentStore, chunkStore, storageClient, pipeline, indexCache)
	r := router.New(api, cfg.APIToken)

	// Upload requests carry whole files, so the read timeout is generous.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, drain HTTP first so
	// no new jobs arrive, then let in-flight ingestions finish.
	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	pipeline.Close()
	slog.Info("server stopped gracefully")
}
