package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/report"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/runner"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/spec"
	"github.com/DjordjeVuckovic/rerank-eval/pkg/config/env"
)

func main() {
	cfg := parseFlags()

	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), ".env"); err != nil && !env.IsMissing(err) {
		slog.Warn("Failed to load .env", "error", err)
	}

	if err := cfg.validateFormat(); err != nil {
		slog.Error("Invalid flags", "error", err)
		os.Exit(1)
	}

	r := runner.New(cfg.runnerConfig())

	if cfg.ListMetrics {
		for _, name := range r.Registry().Names() {
			fmt.Println(name)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := loadSpec(cfg)
	if err != nil {
		slog.Error("Failed to load run spec", "error", err)
		os.Exit(1)
	}
	cfg.applyOverrides(s)

	rpt, err := r.Run(ctx, s)
	if err != nil {
		slog.Error("Evaluation failed", "error", err)
		os.Exit(1)
	}

	if err := outputReport(rpt, cfg.Format, s.Output.Report); err != nil {
		slog.Error("Failed to write report", "error", err)
		os.Exit(1)
	}
}

func loadSpec(cfg cliConfig) (*spec.RunSpec, error) {
	if cfg.SpecPath != "" {
		return spec.LoadFromFile(cfg.SpecPath)
	}
	return cfg.quickSpec()
}

func outputReport(rpt *report.Report, format, path string) error {
	var err error
	switch format {
	case "tsv":
		err = report.WriteMetrics(rpt, os.Stdout)
	case "json":
		err = report.EncodeJSON(rpt, os.Stdout)
	default:
		report.WriteTable(rpt, os.Stdout)
	}
	if err != nil {
		return err
	}

	if path != "" {
		if err := report.WriteJSON(rpt, path); err != nil {
			return err
		}
		slog.Info("Report written", "path", path)
	}
	return nil
}
