package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/rerank-eval/pkg/config/env"
)

type IndexConfig struct {
	SpecPath string
	Username string
	Password string
	BulkSize int
}

func LoadConfig() (*IndexConfig, error) {
	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), "cmd/corpus_index/.env", ".env"); err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	specPath := env.String("SPEC_PATH", "")
	if specPath == "" {
		return nil, fmt.Errorf("SPEC_PATH environment variable is not set")
	}

	bulkSize, err := env.Int("BULK_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("invalid BULK_SIZE: %w", err)
	}
	if bulkSize <= 0 {
		return nil, fmt.Errorf("BULK_SIZE must be positive, got %d", bulkSize)
	}

	return &IndexConfig{
		SpecPath: specPath,
		Username: env.String("ES_USERNAME", ""),
		Password: env.String("ES_PASSWORD", ""),
		BulkSize: bulkSize,
	}, nil
}
