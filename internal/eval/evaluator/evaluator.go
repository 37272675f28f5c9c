package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/metrics"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/rerank"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/writer"
)

// Evaluator scores every example with one reranker and accumulates the
// requested metrics over the resulting score rows.
type Evaluator struct {
	reranker  rerank.Reranker
	names     []string
	factories []metrics.Factory
	writer    writer.Writer
}

// New resolves metric names up front so a typo fails before any reranker
// call is made.
func New(r rerank.Reranker, metricNames []string, opts ...Option) (*Evaluator, error) {
	cfg := buildConfig(opts)

	factories, err := cfg.Registry.ResolveAll(metricNames)
	if err != nil {
		return nil, err
	}

	return &Evaluator{
		reranker:  r,
		names:     append([]string(nil), metricNames...),
		factories: factories,
		writer:    cfg.Writer,
	}, nil
}

// Evaluate returns one completed accumulator per requested metric, in
// request order. Any reranker or writer error aborts the run.
func (e *Evaluator) Evaluate(ctx context.Context, examples []domain.RelevanceExample) ([]metrics.Accumulator, error) {
	if err := validateExamples(examples); err != nil {
		return nil, err
	}

	accs := newAccumulators(e.names, e.factories)

	slog.Info("evaluation started", "reranker", e.reranker.Name(), "queries", len(examples), "metrics", e.names)

	for i := range examples {
		ex := &examples[i]

		scores, err := score(ctx, e.reranker, ex.Query, ex.Documents)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", ex.ID, err)
		}

		if err := record(ctx, e.writer, accs, scores, ex); err != nil {
			return nil, fmt.Errorf("query %q: %w", ex.ID, err)
		}

		slog.Debug("query evaluated", "query_id", ex.ID, "candidates", len(ex.Documents))
	}

	slog.Info("evaluation finished", "reranker", e.reranker.Name(), "queries", len(examples))
	return accs, nil
}

func newAccumulators(names []string, factories []metrics.Factory) []metrics.Accumulator {
	accs := make([]metrics.Accumulator, len(factories))
	for i, f := range factories {
		accs[i] = f(names[i])
	}
	return accs
}

func validateExamples(examples []domain.RelevanceExample) error {
	for i := range examples {
		if err := examples[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func score(ctx context.Context, r rerank.Reranker, query string, docs []domain.Document) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scored, err := r.Rerank(ctx, query, docs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name(), err)
	}
	scores, err := rerank.Scores(scored, len(docs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name(), err)
	}
	return scores, nil
}

// record hands the final row to the writer first, then to every accumulator.
func record(ctx context.Context, w writer.Writer, accs []metrics.Accumulator, scores []float64, ex *domain.RelevanceExample) error {
	if w != nil {
		if err := w.Write(ctx, scores, ex); err != nil {
			return fmt.Errorf("write scores: %w", err)
		}
	}
	for _, acc := range accs {
		acc.Accumulate(scores, ex)
	}
	return nil
}
