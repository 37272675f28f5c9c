package evaluator

import (
	"context"
	"errors"
	"testing"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuoEvaluator(t *testing.T) {
	ctx := context.Background()

	// mono ranks a > b > c; only c is relevant.
	examples := []domain.RelevanceExample{
		makeExample("q1", []string{"a", "b", "c"}, []int{0, 0, 1}),
	}
	mono := func() *tableReranker {
		return &tableReranker{name: "mono", scores: map[string]float64{"a": 0.9, "b": 0.5, "c": 0.1}}
	}
	duo := func() *tableReranker {
		return &tableReranker{name: "duo", scores: map[string]float64{"a": -5, "b": 2, "c": 3}}
	}

	t.Run("top hit is rescored and the rest keep mono scores", func(t *testing.T) {
		m, d, w := mono(), duo(), &recordingWriter{}
		e, err := NewDuo(m, d, []string{"precision@1", "mrr"}, WithMonoHits(1), WithWriter(w))
		require.NoError(t, err)

		accs, err := e.Evaluate(ctx, examples)
		require.NoError(t, err)

		require.Len(t, d.calls, 1)
		assert.Equal(t, []string{"a"}, d.calls[0])

		require.Len(t, w.rows, 1)
		assert.Equal(t, []float64{-5, 0.5, 0.1}, w.rows[0].scores)

		// merged row ranks b > c > a
		v := values(accs)
		assert.InDelta(t, 0.0, v["precision@1"], 1e-9)
		assert.InDelta(t, 0.5, v["mrr"], 1e-9)
	})

	t.Run("shortlist is passed best first", func(t *testing.T) {
		m, d, w := mono(), duo(), &recordingWriter{}
		e, err := NewDuo(m, d, []string{"precision@1"}, WithMonoHits(2), WithWriter(w))
		require.NoError(t, err)

		_, err = e.Evaluate(ctx, examples)
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "b"}, d.calls[0])
		assert.Equal(t, []float64{-5, 2, 0.1}, w.rows[0].scores)
	})

	t.Run("mono hits beyond row length rescores everything", func(t *testing.T) {
		m, d, w := mono(), duo(), &recordingWriter{}
		e, err := NewDuo(m, d, []string{"precision@1"}, WithMonoHits(50), WithWriter(w))
		require.NoError(t, err)

		accs, err := e.Evaluate(ctx, examples)
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "b", "c"}, d.calls[0])
		assert.Equal(t, []float64{-5, 2, 3}, w.rows[0].scores)
		assert.InDelta(t, 1.0, accs[0].Value(), 1e-9)
	})

	t.Run("non-positive mono hits skips the duo stage", func(t *testing.T) {
		for _, hits := range []int{0, -3} {
			m, d, w := mono(), duo(), &recordingWriter{}
			e, err := NewDuo(m, d, []string{"precision@1"}, WithMonoHits(hits), WithWriter(w))
			require.NoError(t, err)

			_, err = e.Evaluate(ctx, examples)
			require.NoError(t, err)

			assert.Empty(t, d.calls)
			assert.Equal(t, []float64{0.9, 0.5, 0.1}, w.rows[0].scores)
		}
	})

	t.Run("mono stage runs for all queries first", func(t *testing.T) {
		m := mono()
		boom := errors.New("duo down")
		d := &tableReranker{name: "duo", err: boom}
		many := append(examples, makeExample("q2", []string{"a", "b"}, []int{1, 0}))

		e, err := NewDuo(m, d, []string{"mrr"})
		require.NoError(t, err)

		_, err = e.Evaluate(ctx, many)
		require.ErrorIs(t, err, boom)
		assert.Len(t, m.calls, 2)
		assert.Len(t, d.calls, 1)
	})

	t.Run("ragged rows", func(t *testing.T) {
		m, d, w := mono(), duo(), &recordingWriter{}
		ragged := []domain.RelevanceExample{
			makeExample("q1", []string{"a", "b", "c"}, []int{0, 0, 1}),
			makeExample("q2", []string{"c"}, []int{1}),
		}
		e, err := NewDuo(m, d, []string{"mrr"}, WithMonoHits(2), WithWriter(w))
		require.NoError(t, err)

		_, err = e.Evaluate(ctx, ragged)
		require.NoError(t, err)

		require.Len(t, w.rows, 2)
		assert.Equal(t, []float64{3}, w.rows[1].scores)
	})

	t.Run("default mono hits", func(t *testing.T) {
		e, err := NewDuo(mono(), duo(), []string{"mrr"})
		require.NoError(t, err)
		assert.Equal(t, DefaultMonoHits, e.monoHits)
	})
}

func TestScoreMatrix_Shortlist(t *testing.T) {
	m := ScoreMatrix{{0.2, 0.8, 0.8, 0.1}}

	assert.Equal(t, []int{1, 2}, m.Shortlist(0, 2), "ties keep lower column first")
	assert.Equal(t, []int{1, 2, 0, 3}, m.Shortlist(0, 10))
	assert.Nil(t, m.Shortlist(0, 0))

	m.Overwrite(0, []int{2, 0}, []float64{5, 6})
	assert.Equal(t, []float64{6, 0.8, 5, 0.1}, m[0])
}
