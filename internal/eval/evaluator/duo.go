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

// DuoEvaluator runs a two-stage evaluation. The mono reranker scores every
// candidate, then the duo reranker rescores each query's top MonoHits
// candidates. Duo scores replace mono scores only in those columns; the
// rest of the row keeps its mono score, so a merged row mixes both scales.
type DuoEvaluator struct {
	mono      rerank.Reranker
	duo       rerank.Reranker
	names     []string
	factories []metrics.Factory
	writer    writer.Writer
	monoHits  int
}

func NewDuo(mono, duo rerank.Reranker, metricNames []string, opts ...Option) (*DuoEvaluator, error) {
	cfg := buildConfig(opts)

	factories, err := cfg.Registry.ResolveAll(metricNames)
	if err != nil {
		return nil, err
	}

	return &DuoEvaluator{
		mono:      mono,
		duo:       duo,
		names:     append([]string(nil), metricNames...),
		factories: factories,
		writer:    cfg.Writer,
		monoHits:  cfg.MonoHits,
	}, nil
}

func (e *DuoEvaluator) Evaluate(ctx context.Context, examples []domain.RelevanceExample) ([]metrics.Accumulator, error) {
	if err := validateExamples(examples); err != nil {
		return nil, err
	}

	accs := newAccumulators(e.names, e.factories)

	slog.Info("duo evaluation started",
		"mono", e.mono.Name(),
		"duo", e.duo.Name(),
		"mono_hits", e.monoHits,
		"queries", len(examples))

	matrix := make(ScoreMatrix, len(examples))
	for i := range examples {
		ex := &examples[i]
		scores, err := score(ctx, e.mono, ex.Query, ex.Documents)
		if err != nil {
			return nil, fmt.Errorf("mono stage, query %q: %w", ex.ID, err)
		}
		matrix[i] = scores
	}

	for i := range examples {
		ex := &examples[i]

		shortlist := matrix.Shortlist(i, e.monoHits)
		if len(shortlist) > 0 {
			docs := make([]domain.Document, len(shortlist))
			for j, col := range shortlist {
				docs[j] = ex.Documents[col]
			}

			duoScores, err := score(ctx, e.duo, ex.Query, docs)
			if err != nil {
				return nil, fmt.Errorf("duo stage, query %q: %w", ex.ID, err)
			}
			matrix.Overwrite(i, shortlist, duoScores)
		}

		if err := record(ctx, e.writer, accs, matrix[i], ex); err != nil {
			return nil, fmt.Errorf("query %q: %w", ex.ID, err)
		}

		slog.Debug("query evaluated", "query_id", ex.ID, "candidates", len(ex.Documents), "rescored", len(shortlist))
	}

	slog.Info("duo evaluation finished", "mono", e.mono.Name(), "duo", e.duo.Name(), "queries", len(examples))
	return accs, nil
}
