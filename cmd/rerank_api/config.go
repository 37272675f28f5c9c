package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/rerank-eval/pkg/config/env"
)

type appConfig struct {
	Env             string
	RerankersPath   string
	ScoresPgURL     string
	ScoresPgMaxConn int32
	Threshold       bool
}

func loadAppConfig() (appConfig, error) {
	appEnv := os.Getenv("APP_ENV")
	if err := env.LoadDotEnv(appEnv, ".env"); err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	maxConns, err := env.Int("SCORES_PG_MAX_CONNS", 0)
	if err != nil {
		return appConfig{}, fmt.Errorf("invalid SCORES_PG_MAX_CONNS: %w", err)
	}

	return appConfig{
		Env:             appEnv,
		RerankersPath:   env.String("RERANKERS_PATH", "configs/rerankers.yaml"),
		ScoresPgURL:     env.String("SCORES_PG_URL", ""),
		ScoresPgMaxConn: int32(maxConns),
		Threshold:       env.Bool("THRESHOLD_METRICS", false),
	}, nil
}
