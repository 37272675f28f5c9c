package writer

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/metrics"
)

// TrecWriter emits a TREC run file: "qid Q0 docid rank score tag", one line
// per candidate, ranks starting at 1 in descending score order.
type TrecWriter struct {
	w       *bufio.Writer
	runName string
}

func NewTrecWriter(w io.Writer, runName string) *TrecWriter {
	return &TrecWriter{w: bufio.NewWriter(w), runName: runName}
}

func (t *TrecWriter) Write(_ context.Context, scores []float64, ex *domain.RelevanceExample) error {
	if len(scores) != len(ex.Documents) {
		return fmt.Errorf("trec writer: %d scores for %d documents in %q", len(scores), len(ex.Documents), ex.ID)
	}

	for rank, idx := range metrics.RankOrder(scores) {
		if _, err := fmt.Fprintf(t.w, "%s Q0 %s %d %.6f %s\n", ex.ID, ex.Documents[idx].ID, rank+1, scores[idx], t.runName); err != nil {
			return fmt.Errorf("trec writer: %w", err)
		}
	}
	return nil
}

func (t *TrecWriter) Flush() error {
	return t.w.Flush()
}
