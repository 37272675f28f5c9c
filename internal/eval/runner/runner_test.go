package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/rerank"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/spec"
	"github.com/DjordjeVuckovic/rerank-eval/internal/storage/pg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lengthReranker prefers longer passages.
type lengthReranker struct{ name string }

func (l lengthReranker) Rerank(_ context.Context, _ string, docs []domain.Document) ([]rerank.Scored, error) {
	out := make([]rerank.Scored, len(docs))
	for i, d := range docs {
		out[i] = rerank.Scored{Document: d, Score: float64(len(d.Text))}
	}
	return out, nil
}

func (l lengthReranker) Name() string { return l.name }
func (l lengthReranker) Close() error { return nil }

type countingReranker struct{ calls int }

func (c *countingReranker) Rerank(_ context.Context, _ string, docs []domain.Document) ([]rerank.Scored, error) {
	c.calls++
	out := make([]rerank.Scored, len(docs))
	for i, d := range docs {
		out[i] = rerank.Scored{Document: d}
	}
	return out, nil
}

func (c *countingReranker) Name() string { return "counting" }
func (c *countingReranker) Close() error { return nil }

const datasetYAML = `
name: tiny
queries:
  - id: q1
    query: "long answers"
    documents:
      - {id: a, text: "short"}
      - {id: b, text: "a much longer passage", relevant: true}
  - id: q2
    query: "more"
    documents:
      - {id: c, text: "the longest passage of them all", relevant: true}
      - {id: d, text: "tiny"}
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(datasetYAML), 0o644))
	return path
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	trecPath := filepath.Join(dir, "runs", "rand.trec")

	s, err := spec.Parse([]byte(`
dataset:
  path: ` + writeDataset(t) + `
rerankers:
  rand:
    type: random
    seed: 3
evaluation:
  reranker: rand
  metrics: [recall@3, mrr]
output:
  trec: ` + trecPath + `
`))
	require.NoError(t, err)

	rpt, err := New(DefaultConfig()).Run(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, "tiny", rpt.Meta.Dataset.Name)
	assert.Equal(t, 2, rpt.Meta.Dataset.Queries)
	require.Len(t, rpt.Metrics, 2)
	require.NotNil(t, rpt.Metrics[0].Value)
	assert.InDelta(t, 1.0, *rpt.Metrics[0].Value, 1e-9)

	data, err := os.ReadFile(trecPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[0], " rand"))
}

func TestRunner_RunWith(t *testing.T) {
	ds := Examples([]domain.RelevanceExample{
		{
			ID:        "q1",
			Query:     "long answers",
			Documents: []domain.Document{{ID: "a", Text: "short"}, {ID: "b", Text: "a much longer passage"}},
			Labels:    []int{0, 1},
		},
	})

	t.Run("single", func(t *testing.T) {
		s := &spec.RunSpec{
			Rerankers:  map[string]spec.Reranker{"len": {Type: "api"}},
			Evaluation: spec.Evaluation{Method: spec.MethodSingle, Reranker: "len", Metrics: []string{"precision@1"}},
		}
		rpt, err := New(DefaultConfig()).RunWith(context.Background(), s, ds, map[string]rerank.Reranker{"len": lengthReranker{name: "len"}})
		require.NoError(t, err)

		assert.InDelta(t, 1.0, *rpt.Metrics[0].Value, 1e-9)
		require.Len(t, rpt.Latency, 1)
		assert.Equal(t, 1, rpt.Latency[0].Stats.SampleCount)
		assert.Equal(t, "mono", rpt.Meta.Rerankers["len"].Role)
		assert.Nil(t, rpt.Meta.MonoHits)
	})

	t.Run("duo", func(t *testing.T) {
		hits := 5
		s := &spec.RunSpec{
			Rerankers: map[string]spec.Reranker{"rand": {Type: "random"}, "len": {Type: "api"}},
			Evaluation: spec.Evaluation{
				Method:      spec.MethodDuo,
				Reranker:    "rand",
				DuoReranker: "len",
				MonoHits:    &hits,
				Metrics:     []string{"precision@1"},
			},
		}
		rerankers := map[string]rerank.Reranker{
			"rand": rerank.NewRandomReranker("rand", 1),
			"len":  lengthReranker{name: "len"},
		}

		rpt, err := New(DefaultConfig()).RunWith(context.Background(), s, ds, rerankers)
		require.NoError(t, err)

		// every candidate is rescored by length, so the relevant one wins
		assert.InDelta(t, 1.0, *rpt.Metrics[0].Value, 1e-9)
		assert.Len(t, rpt.Latency, 2)
		require.NotNil(t, rpt.Meta.MonoHits)
		assert.Equal(t, 5, *rpt.Meta.MonoHits)
		assert.Equal(t, "duo", rpt.Meta.Rerankers["len"].Role)
	})

	t.Run("duo with zero mono hits keeps mono scores", func(t *testing.T) {
		hits := 0
		s := &spec.RunSpec{
			Rerankers: map[string]spec.Reranker{"len": {Type: "api"}, "never": {Type: "api"}},
			Evaluation: spec.Evaluation{
				Method:      spec.MethodDuo,
				Reranker:    "len",
				DuoReranker: "never",
				MonoHits:    &hits,
				Metrics:     []string{"precision@1"},
			},
		}
		never := &countingReranker{}
		rerankers := map[string]rerank.Reranker{"len": lengthReranker{name: "len"}, "never": never}

		rpt, err := New(DefaultConfig()).RunWith(context.Background(), s, ds, rerankers)
		require.NoError(t, err)

		assert.Zero(t, never.calls)
		assert.InDelta(t, 1.0, *rpt.Metrics[0].Value, 1e-9)
		require.NotNil(t, rpt.Meta.MonoHits)
		assert.Zero(t, *rpt.Meta.MonoHits)
	})

	t.Run("default metric set", func(t *testing.T) {
		s := &spec.RunSpec{
			Rerankers:  map[string]spec.Reranker{"len": {Type: "api"}},
			Evaluation: spec.Evaluation{Reranker: "len"},
		}
		rpt, err := New(DefaultConfig()).RunWith(context.Background(), s, ds, map[string]rerank.Reranker{"len": lengthReranker{name: "len"}})
		require.NoError(t, err)

		names := make([]string, len(rpt.Metrics))
		for i, m := range rpt.Metrics {
			names[i] = m.Name
		}
		assert.Equal(t, []string{"precision@1", "recall@3", "recall@50", "recall@1000", "mrr", "mrr@10"}, names)
	})

	t.Run("threshold metrics when enabled", func(t *testing.T) {
		s := &spec.RunSpec{
			Rerankers:  map[string]spec.Reranker{"len": {Type: "api"}},
			Evaluation: spec.Evaluation{Reranker: "len"},
		}
		rpt, err := New(DefaultConfig().WithThresholdMetrics()).RunWith(context.Background(), s, ds, map[string]rerank.Reranker{"len": lengthReranker{name: "len"}})
		require.NoError(t, err)

		require.Len(t, rpt.Metrics, 8)
		assert.Equal(t, "precision@threshold", rpt.Metrics[6].Name)
		assert.Equal(t, "recall@threshold", rpt.Metrics[7].Name)
	})

	t.Run("threshold metric rejected by default", func(t *testing.T) {
		s := &spec.RunSpec{
			Rerankers:  map[string]spec.Reranker{"len": {Type: "api"}},
			Evaluation: spec.Evaluation{Reranker: "len", Metrics: []string{"recall@threshold"}},
		}
		_, err := New(DefaultConfig()).RunWith(context.Background(), s, ds, map[string]rerank.Reranker{"len": lengthReranker{name: "len"}})
		assert.Error(t, err)
	})

	t.Run("missing reranker", func(t *testing.T) {
		s := &spec.RunSpec{Evaluation: spec.Evaluation{Reranker: "ghost"}}
		_, err := New(DefaultConfig()).RunWith(context.Background(), s, ds, map[string]rerank.Reranker{})
		assert.Error(t, err)
	})

	t.Run("unknown metric", func(t *testing.T) {
		s := &spec.RunSpec{
			Rerankers:  map[string]spec.Reranker{"len": {Type: "api"}},
			Evaluation: spec.Evaluation{Reranker: "len", Metrics: []string{"map@100"}},
		}
		_, err := New(DefaultConfig()).RunWith(context.Background(), s, ds, map[string]rerank.Reranker{"len": lengthReranker{name: "len"}})
		assert.Error(t, err)
	})
}

type memoryScores struct {
	rows []pg.ScoreRow
}

func (m *memoryScores) SaveBulk(_ context.Context, rows []pg.ScoreRow) error {
	m.rows = append(m.rows, rows...)
	return nil
}

func TestRunner_ScoreSaver(t *testing.T) {
	scores := &memoryScores{}
	cfg := DefaultConfig()
	cfg.Scores = scores

	s := &spec.RunSpec{
		Rerankers:  map[string]spec.Reranker{"len": {Type: "api"}},
		Evaluation: spec.Evaluation{Reranker: "len", Metrics: []string{"mrr"}},
	}
	ds := Examples([]domain.RelevanceExample{{
		ID:        "q1",
		Documents: []domain.Document{{ID: "a", Text: "x"}, {ID: "b", Text: "xyz"}},
		Labels:    []int{1, 0},
	}})

	rpt, err := New(cfg).RunWith(context.Background(), s, ds, map[string]rerank.Reranker{"len": lengthReranker{name: "len"}})
	require.NoError(t, err)

	require.Len(t, scores.rows, 2)
	assert.Equal(t, rpt.Meta.RunID, scores.rows[0].RunID)
	assert.Equal(t, "b", scores.rows[0].DocID)
	assert.InDelta(t, 0.5, *rpt.Metrics[0].Value, 1e-9)
}
