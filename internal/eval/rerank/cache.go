package rerank

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/cespare/xxhash/v2"
)

// ScoreStore persists (query, document) scores between runs. Get omits keys
// it does not hold.
type ScoreStore interface {
	Get(ctx context.Context, keys []string) (map[string]float64, error)
	Set(ctx context.Context, scores map[string]float64) error
}

// Listwise is implemented by rerankers whose score for a document depends
// on the other candidates in the same call, such as pairwise duo models.
type Listwise interface {
	Listwise() bool
}

func isListwise(r Reranker) bool {
	l, ok := r.(Listwise)
	return ok && l.Listwise()
}

// CachingReranker only forwards the candidates the store has no score for.
// Scores are keyed by (query, document), so the wrapped reranker must be
// pointwise: a document's score may not depend on which other candidates
// share the call. Use WithCache to wrap rerankers of unknown kind.
type CachingReranker struct {
	next      Reranker
	store     ScoreStore
	namespace string
}

func NewCachingReranker(next Reranker, store ScoreStore) *CachingReranker {
	return &CachingReranker{
		next:      next,
		store:     store,
		namespace: "rerank:" + next.Name(),
	}
}

// WithCache wraps r in a CachingReranker unless r is listwise, in which case
// r is returned unchanged.
func WithCache(r Reranker, store ScoreStore) Reranker {
	if isListwise(r) {
		slog.Warn("score cache skipped for listwise reranker", "reranker", r.Name())
		return r
	}
	return NewCachingReranker(r, store)
}

func (c *CachingReranker) Rerank(ctx context.Context, query string, docs []domain.Document) ([]Scored, error) {
	if len(docs) == 0 {
		return []Scored{}, nil
	}

	keys := make([]string, len(docs))
	for i, d := range docs {
		keys[i] = c.key(query, d)
	}

	cached, err := c.store.Get(ctx, keys)
	if err != nil {
		// A broken cache degrades to a pass-through.
		slog.Warn("score cache read failed", "reranker", c.next.Name(), "error", err)
		cached = map[string]float64{}
	}

	var missIdx []int
	var missDocs []domain.Document
	for i, k := range keys {
		if _, ok := cached[k]; !ok {
			missIdx = append(missIdx, i)
			missDocs = append(missDocs, docs[i])
		}
	}

	scores := make([]float64, len(docs))
	for i, k := range keys {
		scores[i] = cached[k]
	}

	if len(missDocs) > 0 {
		fresh, err := c.next.Rerank(ctx, query, missDocs)
		if err != nil {
			return nil, err
		}
		freshScores, err := Scores(fresh, len(missDocs))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.next.Name(), err)
		}

		toStore := make(map[string]float64, len(missIdx))
		for j, i := range missIdx {
			scores[i] = freshScores[j]
			toStore[keys[i]] = freshScores[j]
		}
		if err := c.store.Set(ctx, toStore); err != nil {
			slog.Warn("score cache write failed", "reranker", c.next.Name(), "error", err)
		}
	}

	slog.Debug("score cache lookup", "reranker", c.next.Name(), "hits", len(docs)-len(missDocs), "misses", len(missDocs))
	return zip(docs, scores), nil
}

func (c *CachingReranker) Name() string { return c.next.Name() }
func (c *CachingReranker) Close() error { return c.next.Close() }

func (c *CachingReranker) key(query string, d domain.Document) string {
	h := xxhash.New()
	_, _ = h.WriteString(query)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(d.ID)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(d.Content())
	return c.namespace + ":" + strconv.FormatUint(h.Sum64(), 16)
}
