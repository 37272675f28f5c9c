package evaluator

import (
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/metrics"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/writer"
)

const DefaultMonoHits = 10

type Config struct {
	Registry *metrics.Registry
	Writer   writer.Writer
	// MonoHits is how many first-stage candidates per query the duo
	// reranker rescores. Values <= 0 leave every row at its mono score.
	MonoHits int
}

func DefaultConfig() Config {
	return Config{
		Registry: metrics.DefaultRegistry(),
		MonoHits: DefaultMonoHits,
	}
}

type Option func(*Config)

func WithRegistry(r *metrics.Registry) Option {
	return func(c *Config) {
		c.Registry = r
	}
}

func WithWriter(w writer.Writer) Option {
	return func(c *Config) {
		c.Writer = w
	}
}

func WithMonoHits(n int) Option {
	return func(c *Config) {
		c.MonoHits = n
	}
}

func buildConfig(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
