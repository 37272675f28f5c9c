package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/rerank-eval/internal/apperr"
	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAML(t *testing.T) {
	t.Run("valid dataset", func(t *testing.T) {
		data := `
name: lit-review
queries:
  - id: q1
    query: "Which drugs reduce viral load?"
    documents:
      - id: p1
        title: Remdesivir trial
        text: "Remdesivir shortened recovery time."
        relevant: true
      - id: p2
        text: "Masks reduce transmission."
  - id: q2
    query: "Incubation period"
    documents: []
`
		ds, err := ParseYAML([]byte(data))
		require.NoError(t, err)

		assert.Equal(t, "lit-review", ds.Name)
		require.Len(t, ds.Examples, 2)

		q1 := ds.Examples[0]
		assert.Equal(t, "q1", q1.ID)
		assert.Equal(t, []int{1, 0}, q1.Labels)
		assert.Equal(t, "Remdesivir trial", q1.Documents[0].Title)
		assert.NoError(t, q1.Validate())

		assert.Empty(t, ds.Examples[1].Documents)
	})

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "no queries", data: "name: empty\n", wantErr: "no queries"},
		{
			name:    "missing id",
			data:    "queries:\n  - query: q\n",
			wantErr: "has no id",
		},
		{
			name:    "duplicate id",
			data:    "queries:\n  - {id: a, query: x}\n  - {id: a, query: y}\n",
			wantErr: "duplicate query id",
		},
		{
			name:    "missing query text",
			data:    "queries:\n  - {id: a}\n",
			wantErr: "has no text",
		},
		{
			name:    "document without id",
			data:    "queries:\n  - id: a\n    query: x\n    documents:\n      - {text: t}\n",
			wantErr: "document 0 has no id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var ve *apperr.ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadTREC(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"bm25.run": "q2 Q0 d3 1 9.1 bm25\n" +
			"q1 Q0 d2 2 7.0 bm25\n" +
			"q1 Q0 d1 1 8.5 bm25\n" +
			"q1 Q0 d9 3 1.0 bm25\n" +
			"\n" +
			"q2 Q0 d1 2 3.3 bm25\n",
		"qrels.txt": "q1 0 d2 2\nq1 0 d1 0\nq2 0 d3 1\n",
		"topics.tsv": "q1\tsars-cov-2 incubation period\n" +
			"q2\tmask efficacy\n",
		"corpus.jsonl": `{"id":"d1","title":"T1","text":"one"}` + "\n" +
			`{"id":"d2","text":"two"}` + "\n" +
			`{"id":"d3","text":"three"}` + "\n",
	})
	src := TRECSource{
		Run:    filepath.Join(dir, "bm25.run"),
		Qrels:  filepath.Join(dir, "qrels.txt"),
		Topics: filepath.Join(dir, "topics.tsv"),
		Corpus: filepath.Join(dir, "corpus.jsonl"),
	}

	t.Run("assembles examples in run order", func(t *testing.T) {
		ds, err := LoadTREC(src)
		require.NoError(t, err)

		assert.Equal(t, "bm25", ds.Name)
		require.Len(t, ds.Examples, 2)

		q2 := ds.Examples[0]
		assert.Equal(t, "q2", q2.ID)
		assert.Equal(t, "mask efficacy", q2.Query)
		assert.Equal(t, []int{1, 0}, q2.Labels)

		q1 := ds.Examples[1]
		require.Len(t, q1.Documents, 3)
		assert.Equal(t, "d1", q1.Documents[0].ID)
		assert.Equal(t, "T1", q1.Documents[0].Title)
		assert.Equal(t, "d2", q1.Documents[1].ID)
		assert.Equal(t, "d9", q1.Documents[2].ID)
		assert.Empty(t, q1.Documents[2].Text)
		assert.Equal(t, []int{0, 1, 0}, q1.Labels)
	})

	t.Run("depth caps candidates", func(t *testing.T) {
		capped := src
		capped.Depth = 1

		ds, err := LoadTREC(capped)
		require.NoError(t, err)
		for _, ex := range ds.Examples {
			assert.Len(t, ex.Documents, 1)
		}
	})

	t.Run("via spec", func(t *testing.T) {
		ds, err := FromSpec(spec.Dataset{
			Format: spec.FormatTREC,
			Run:    src.Run,
			Qrels:  src.Qrels,
			Topics: src.Topics,
			Corpus: src.Corpus,
		})
		require.NoError(t, err)
		assert.Len(t, ds.Examples, 2)
	})
}

func TestLoadTREC_Errors(t *testing.T) {
	base := map[string]string{
		"run":    "q1 Q0 d1 1 1.0 tag\n",
		"qrels":  "q1 0 d1 1\n",
		"topics": "q1\tquery\n",
		"corpus": `{"id":"d1","text":"x"}` + "\n",
	}

	tests := []struct {
		name     string
		override map[string]string
		wantErr  string
	}{
		{name: "short run line", override: map[string]string{"run": "q1 Q0 d1 1\n"}, wantErr: "want 6 fields"},
		{name: "bad rank", override: map[string]string{"run": "q1 Q0 d1 one 1.0 tag\n"}, wantErr: "rank"},
		{name: "bad qrel grade", override: map[string]string{"qrels": "q1 0 d1 yes\n"}, wantErr: "grade"},
		{name: "topic without tab", override: map[string]string{"topics": "q1 query\n"}, wantErr: "qid<TAB>query"},
		{name: "corpus not json", override: map[string]string{"corpus": "d1 text\n"}, wantErr: "load corpus"},
		{name: "query without topic", override: map[string]string{"topics": "q9\tother\n"}, wantErr: "has no topic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{}
			for k, v := range base {
				files[k] = v
			}
			for k, v := range tt.override {
				files[k] = v
			}
			dir := writeFiles(t, files)

			_, err := LoadTREC(TRECSource{
				Run:    filepath.Join(dir, "run"),
				Qrels:  filepath.Join(dir, "qrels"),
				Topics: filepath.Join(dir, "topics"),
				Corpus: filepath.Join(dir, "corpus"),
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTREC(TRECSource{Run: "nope", Qrels: "nope", Topics: "nope", Corpus: "nope"})
		assert.Error(t, err)
	})
}

func TestDataset_Documents(t *testing.T) {
	ds := &Dataset{Examples: []domain.RelevanceExample{
		{ID: "q1", Documents: []domain.Document{{ID: "a"}, {ID: "b"}}},
		{ID: "q2", Documents: []domain.Document{{ID: "b"}, {ID: "c"}}},
	}}

	assert.Equal(t, []string{"a", "b", "c"}, domain.DocumentIDs(ds.Documents()))
	assert.Empty(t, (&Dataset{}).Documents())
}
