package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/marketlens/marketlens/internal/config"
	logpkg "github.com/marketlens/marketlens/internal/logger"
	"github.com/marketlens/marketlens/internal/repository/catalog"
	mcpTransport "github.com/marketlens/marketlens/internal/transport/mcp"
	openaiEmb "github.com/marketlens/marketlens/internal/transport/openai"
	analyticsuc "github.com/marketlens/marketlens/internal/usecase/analytics"
	searchuc "github.com/marketlens/marketlens/internal/usecase/search"
	"github.com/marketlens/marketlens/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("marketlens MCP server\nVersion: %s\nCommit: %s\n", version.Version, version.Commit)
		os.Exit(0)
	}

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Stdout is reserved for the MCP protocol; zap writes to stderr.
	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting marketlens MCP server",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("data_path", cfg.Catalog.DataPath),
	)

	table, matrix, err := catalog.Load(catalog.Source{
		DataPath:       cfg.Catalog.DataPath,
		EmbeddingsPath: cfg.Catalog.EmbeddingsPath,
	})
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	logger.Info("Catalog loaded",
		zap.Int("rows", table.Len()),
		zap.Bool("embeddings", matrix != nil),
	)

	// The MCP binary talks straight to the provider; the Redis cache is an
	// HTTP server concern.
	var embedder searchuc.Embedder
	var vectors searchuc.VectorSource
	if cfg.Embedding.APIKey != "" {
		embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Logger:     logger,
		})
		if matrix != nil {
			vectors = matrix
		}
	} else {
		logger.Warn("No embedding API key configured, running lexical-only")
	}

	scorer := searchuc.NewScorer(table, vectors, embedder, cfg.Search.Alpha, cfg.Search.Beta)
	resolver := searchuc.NewHintResolver(table, scorer, cfg.Search.ResolveMaxRows)
	searchSvc := searchuc.New(table, scorer, resolver, logger)
	analyticsSvc := analyticsuc.New(searchSvc, cfg.Search.AnalyticsMaxRows, logger)

	server := mcpTransport.NewServer(searchSvc, analyticsSvc, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("MCP server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errChan:
		if err != nil {
			logger.Fatal("MCP server error", zap.Error(err))
		}
	}

	logger.Info("Server stopped")
}
