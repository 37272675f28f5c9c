package rerank

import (
	"context"

	"github.com/DjordjeVuckovic/rerank-eval/internal/apperr"
	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
)

// Reranker scores a query against candidate documents. The returned slice
// is aligned with docs: element i carries the score for docs[i].
type Reranker interface {
	Rerank(ctx context.Context, query string, docs []domain.Document) ([]Scored, error)
	Name() string
	Close() error
}

type Scored struct {
	Document domain.Document
	Score    float64
}

// Scores extracts the score column and checks it covers exactly n documents.
func Scores(scored []Scored, n int) ([]float64, error) {
	if len(scored) != n {
		return nil, apperr.NewValidationf("reranker returned %d scores for %d documents", len(scored), n)
	}
	out := make([]float64, n)
	for i, s := range scored {
		out[i] = s.Score
	}
	return out, nil
}

func zip(docs []domain.Document, scores []float64) []Scored {
	out := make([]Scored, len(docs))
	for i, d := range docs {
		out[i] = Scored{Document: d, Score: scores[i]}
	}
	return out
}
