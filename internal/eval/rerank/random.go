package rerank

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
)

// RandomReranker assigns uniform scores in [0, 1). A fixed seed makes runs
// reproducible, which is what a baseline needs.
type RandomReranker struct {
	name string
	mu   sync.Mutex
	rng  *rand.Rand
}

func NewRandomReranker(name string, seed uint64) *RandomReranker {
	return &RandomReranker{
		name: name,
		rng:  rand.New(rand.NewPCG(seed, seed)),
	}
}

func (r *RandomReranker) Rerank(_ context.Context, _ string, docs []domain.Document) ([]Scored, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	scores := make([]float64, len(docs))
	for i := range scores {
		scores[i] = r.rng.Float64()
	}
	return zip(docs, scores), nil
}

func (r *RandomReranker) Name() string { return r.name }
func (r *RandomReranker) Close() error { return nil }
