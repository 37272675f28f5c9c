// Package main Rerank Eval API
// @title Rerank Eval API
// @version 1.0
// @description Evaluates configured rerankers against labeled query/document examples
// @contact.name API Support
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	_ "github.com/DjordjeVuckovic/rerank-eval/docs"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/rerank"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/runner"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/spec"
	"github.com/DjordjeVuckovic/rerank-eval/internal/router"
	"github.com/DjordjeVuckovic/rerank-eval/internal/server"
	"github.com/DjordjeVuckovic/rerank-eval/internal/storage/pg"
	pkgserver "github.com/DjordjeVuckovic/rerank-eval/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	appCfg, err := loadAppConfig()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	catalog, err := spec.LoadCatalog(appCfg.RerankersPath)
	if err != nil {
		slog.Error("Failed to load reranker catalog", "path", appCfg.RerankersPath, "error", err)
		os.Exit(1)
	}

	runCfg := runner.DefaultConfig()
	if appCfg.Threshold {
		runCfg = runCfg.WithThresholdMetrics()
	}
	var checks []pkgserver.HealthChecker

	var pool *pg.ConnectionPool
	if appCfg.ScoresPgURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err = pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: appCfg.ScoresPgURL, MaxConns: appCfg.ScoresPgMaxConn})
		cancel()
		if err != nil {
			slog.Error("Failed to connect score store", "error", err)
			os.Exit(1)
		}
		runCfg.Scores = pg.NewScoreIndexer(pool)
		checks = append(checks, pg.NewHealthChecker(pool))
		slog.Info("Score persistence enabled")
	}

	s := server.New(sCfg, pkgserver.All(checks...)).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Rerank Eval API is running")
	})

	rerankers, cleanup, err := rerank.CreateFromSpec(s.Context(), catalog.Rerankers, catalog.Cache)
	if err != nil {
		slog.Error("Failed to create rerankers", "error", err)
		os.Exit(1)
	}

	evalRouter := router.NewEvalRouter(s.Echo, runner.New(runCfg), rerankers, catalog.Rerankers)
	evalRouter.Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, draining requests...")
	}()

	err = s.Start()

	cleanup()
	if pool != nil {
		pool.Close()
	}

	if err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
