package evaluator

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/metrics"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/rerank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableReranker scores documents from a fixed id -> score table and records
// every call it receives.
type tableReranker struct {
	name   string
	scores map[string]float64
	calls  [][]string
	err    error
	short  bool
}

func (r *tableReranker) Rerank(_ context.Context, _ string, docs []domain.Document) ([]rerank.Scored, error) {
	r.calls = append(r.calls, domain.DocumentIDs(docs))
	if r.err != nil {
		return nil, r.err
	}
	out := make([]rerank.Scored, len(docs))
	for i, d := range docs {
		out[i] = rerank.Scored{Document: d, Score: r.scores[d.ID]}
	}
	if r.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (r *tableReranker) Name() string { return r.name }
func (r *tableReranker) Close() error { return nil }

type row struct {
	queryID string
	scores  []float64
}

type recordingWriter struct {
	rows []row
	err  error
}

func (w *recordingWriter) Write(_ context.Context, scores []float64, ex *domain.RelevanceExample) error {
	if w.err != nil {
		return w.err
	}
	w.rows = append(w.rows, row{queryID: ex.ID, scores: append([]float64(nil), scores...)})
	return nil
}

func makeExample(id string, docIDs []string, labels []int) domain.RelevanceExample {
	docs := make([]domain.Document, len(docIDs))
	for i, d := range docIDs {
		docs[i] = domain.Document{ID: d, Text: "passage " + d}
	}
	return domain.RelevanceExample{ID: id, Query: "query " + id, Documents: docs, Labels: labels}
}

func values(accs []metrics.Accumulator) map[string]float64 {
	out := make(map[string]float64, len(accs))
	for _, a := range accs {
		out[a.Name()] = a.Value()
	}
	return out
}

func TestEvaluator_Evaluate(t *testing.T) {
	ctx := context.Background()
	examples := []domain.RelevanceExample{
		makeExample("q1", []string{"a", "b", "c"}, []int{0, 1, 0}),
		makeExample("q2", []string{"d", "e"}, []int{1, 0}),
	}
	r := &tableReranker{name: "oracle", scores: map[string]float64{"a": 0.1, "b": 0.9, "c": 0.2, "d": 0.7, "e": 0.3}}

	t.Run("perfect ranking", func(t *testing.T) {
		w := &recordingWriter{}
		e, err := New(r, []string{"precision@1", "mrr", "recall@3"}, WithWriter(w))
		require.NoError(t, err)

		accs, err := e.Evaluate(ctx, examples)
		require.NoError(t, err)
		require.Len(t, accs, 3)

		assert.Equal(t, "precision@1", accs[0].Name())
		assert.Equal(t, "mrr", accs[1].Name())
		assert.Equal(t, "recall@3", accs[2].Name())
		assert.InDelta(t, 1.0, accs[0].Value(), 1e-9)
		assert.InDelta(t, 1.0, accs[1].Value(), 1e-9)
		assert.InDelta(t, 1.0, accs[2].Value(), 1e-9)
		assert.Equal(t, 2, accs[0].Count())

		require.Len(t, w.rows, 2)
		assert.Equal(t, "q1", w.rows[0].queryID)
		assert.Equal(t, []float64{0.1, 0.9, 0.2}, w.rows[0].scores)
		assert.Equal(t, "q2", w.rows[1].queryID)
	})

	t.Run("accumulators are fresh per call", func(t *testing.T) {
		e, err := New(r, []string{"mrr"})
		require.NoError(t, err)

		_, err = e.Evaluate(ctx, examples)
		require.NoError(t, err)
		accs, err := e.Evaluate(ctx, examples[:1])
		require.NoError(t, err)
		assert.Equal(t, 1, accs[0].Count())
	})

	t.Run("no examples yields NaN", func(t *testing.T) {
		e, err := New(r, []string{"mrr"})
		require.NoError(t, err)

		accs, err := e.Evaluate(ctx, nil)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(accs[0].Value()))
	})
}

func TestEvaluator_Errors(t *testing.T) {
	ctx := context.Background()
	examples := []domain.RelevanceExample{
		makeExample("q1", []string{"a", "b"}, []int{1, 0}),
		makeExample("q2", []string{"c"}, []int{1}),
	}

	t.Run("unknown metric fails at construction", func(t *testing.T) {
		_, err := New(&tableReranker{name: "r"}, []string{"mrr", "ndcg@10"})
		require.Error(t, err)

		var ue *metrics.UnknownMetricError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, "ndcg@10", ue.Name)
	})

	t.Run("reranker error aborts remaining queries", func(t *testing.T) {
		boom := errors.New("model server down")
		r := &tableReranker{name: "r", err: boom}
		w := &recordingWriter{}
		e, err := New(r, []string{"mrr"}, WithWriter(w))
		require.NoError(t, err)

		_, err = e.Evaluate(ctx, examples)
		require.ErrorIs(t, err, boom)
		assert.Len(t, r.calls, 1)
		assert.Empty(t, w.rows)
	})

	t.Run("writer error propagates", func(t *testing.T) {
		boom := errors.New("disk full")
		e, err := New(&tableReranker{name: "r"}, []string{"mrr"}, WithWriter(&recordingWriter{err: boom}))
		require.NoError(t, err)

		_, err = e.Evaluate(ctx, examples)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("short score vector is rejected", func(t *testing.T) {
		e, err := New(&tableReranker{name: "r", short: true}, []string{"mrr"})
		require.NoError(t, err)

		_, err = e.Evaluate(ctx, examples)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "returned 1 scores for 2 documents")
	})

	t.Run("invalid example fails before reranking", func(t *testing.T) {
		r := &tableReranker{name: "r"}
		e, err := New(r, []string{"mrr"})
		require.NoError(t, err)

		bad := []domain.RelevanceExample{examples[0], makeExample("q3", []string{"x", "y"}, []int{1})}
		_, err = e.Evaluate(ctx, bad)
		require.Error(t, err)
		assert.Empty(t, r.calls)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		e, err := New(&tableReranker{name: "r"}, []string{"mrr"})
		require.NoError(t, err)

		_, err = e.Evaluate(cctx, examples)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("custom registry", func(t *testing.T) {
		reg := metrics.NewRegistry()
		reg.Register("p@2", metrics.PrecisionAt(2))

		_, err := New(&tableReranker{name: "r"}, []string{"mrr"}, WithRegistry(reg))
		assert.Error(t, err)

		e, err := New(&tableReranker{name: "r"}, []string{"p@2"}, WithRegistry(reg))
		require.NoError(t, err)
		accs, err := e.Evaluate(ctx, examples)
		require.NoError(t, err)
		assert.Equal(t, "p@2", accs[0].Name())
	})
}

// callLog records writer and accumulator calls in the order they happen.
type callLog struct{ seen []string }

type loggingWriter struct{ calls *callLog }

func (w loggingWriter) Write(_ context.Context, _ []float64, ex *domain.RelevanceExample) error {
	w.calls.seen = append(w.calls.seen, "write "+ex.ID)
	return nil
}

type loggingAccumulator struct {
	name  string
	calls *callLog
	n     int
}

func (a *loggingAccumulator) Name() string { return a.name }

func (a *loggingAccumulator) Accumulate(_ []float64, ex *domain.RelevanceExample) {
	a.n++
	a.calls.seen = append(a.calls.seen, a.name+" "+ex.ID)
}

func (a *loggingAccumulator) Value() float64 { return 0 }
func (a *loggingAccumulator) Count() int     { return a.n }

func TestEvaluators_WriteBeforeAccumulate(t *testing.T) {
	examples := []domain.RelevanceExample{
		makeExample("q1", []string{"a", "b"}, []int{1, 0}),
		makeExample("q2", []string{"c", "d"}, []int{0, 1}),
	}
	want := []string{"write q1", "first q1", "second q1", "write q2", "first q2", "second q2"}

	setup := func() (*callLog, *metrics.Registry) {
		calls := &callLog{}
		reg := metrics.NewRegistry()
		for _, name := range []string{"first", "second"} {
			reg.Register(name, func(n string) metrics.Accumulator {
				return &loggingAccumulator{name: n, calls: calls}
			})
		}
		return calls, reg
	}
	scorer := &tableReranker{name: "table", scores: map[string]float64{"a": 1, "b": 2, "c": 3, "d": 4}}

	t.Run("single", func(t *testing.T) {
		calls, reg := setup()
		e, err := New(scorer, []string{"first", "second"}, WithRegistry(reg), WithWriter(loggingWriter{calls: calls}))
		require.NoError(t, err)

		_, err = e.Evaluate(context.Background(), examples)
		require.NoError(t, err)
		assert.Equal(t, want, calls.seen)
	})

	t.Run("duo", func(t *testing.T) {
		calls, reg := setup()
		e, err := NewDuo(scorer, scorer, []string{"first", "second"}, WithRegistry(reg), WithWriter(loggingWriter{calls: calls}), WithMonoHits(1))
		require.NoError(t, err)

		_, err = e.Evaluate(context.Background(), examples)
		require.NoError(t, err)
		assert.Equal(t, want, calls.seen)
	})
}
