package rerank

import (
	"context"
	"time"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/latency"
)

// TimedReranker records the wall time of every successful Rerank call.
type TimedReranker struct {
	next     Reranker
	recorder latency.Recorder
}

func NewTimedReranker(next Reranker) *TimedReranker {
	return &TimedReranker{next: next}
}

func (t *TimedReranker) Rerank(ctx context.Context, query string, docs []domain.Document) ([]Scored, error) {
	start := time.Now()
	out, err := t.next.Rerank(ctx, query, docs)
	if err != nil {
		return nil, err
	}
	t.recorder.Record(time.Since(start))
	return out, nil
}

func (t *TimedReranker) Latency() latency.Stats { return t.recorder.Stats() }

func (t *TimedReranker) Name() string { return t.next.Name() }
func (t *TimedReranker) Close() error { return t.next.Close() }
