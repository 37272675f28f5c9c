package runner

import (
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/metrics"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/writer"
)

const Version = "1.0.0"

type Config struct {
	Registry *metrics.Registry
	Version  string
	// Scores, when set, receives every run's ranked rows in addition to
	// the outputs a spec names.
	Scores writer.ScoreSaver
}

func DefaultConfig() Config {
	return Config{
		Registry: metrics.DefaultRegistry(),
		Version:  Version,
	}
}

// WithThresholdMetrics adds precision@threshold and recall@threshold to the
// config's registry, so runs without explicit metrics report them too.
func (c Config) WithThresholdMetrics() Config {
	metrics.RegisterThresholdMetrics(c.Registry)
	return c
}
