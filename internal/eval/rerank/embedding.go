package rerank

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/embedding"
	"gonum.org/v1/gonum/floats"
)

// EmbeddingReranker scores documents by cosine similarity between the query
// embedding and each document embedding.
type EmbeddingReranker struct {
	name     string
	embedder *embedding.Embedder
}

func NewEmbeddingReranker(name string, embedder *embedding.Embedder) *EmbeddingReranker {
	return &EmbeddingReranker{name: name, embedder: embedder}
}

func (r *EmbeddingReranker) Rerank(ctx context.Context, query string, docs []domain.Document) ([]Scored, error) {
	if len(docs) == 0 {
		return []Scored{}, nil
	}

	q, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	vecs, err := r.embedder.EmbedDocs(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}

	qv := toFloat64(q.Embedding)
	scores := make([]float64, len(docs))
	for i, v := range vecs {
		scores[i] = cosine(qv, toFloat64(v.Embedding))
	}
	return zip(docs, scores), nil
}

func (r *EmbeddingReranker) Name() string { return r.name }
func (r *EmbeddingReranker) Close() error { return nil }

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// cosine returns 0 when either vector is zero or the dimensions differ.
func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}
