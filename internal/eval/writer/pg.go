package writer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/metrics"
	"github.com/DjordjeVuckovic/rerank-eval/internal/storage/pg"
	"github.com/google/uuid"
)

type ScoreSaver interface {
	SaveBulk(ctx context.Context, rows []pg.ScoreRow) error
}

// PgWriter stores every ranked candidate of a run under one run id.
type PgWriter struct {
	runID uuid.UUID
	saver ScoreSaver
}

func NewPgWriter(runID uuid.UUID, saver ScoreSaver) *PgWriter {
	return &PgWriter{runID: runID, saver: saver}
}

func (p *PgWriter) RunID() uuid.UUID { return p.runID }

func (p *PgWriter) Write(ctx context.Context, scores []float64, ex *domain.RelevanceExample) error {
	if len(scores) != len(ex.Documents) {
		return fmt.Errorf("pg writer: %d scores for %d documents in %q", len(scores), len(ex.Documents), ex.ID)
	}

	rows := make([]pg.ScoreRow, 0, len(scores))
	for rank, idx := range metrics.RankOrder(scores) {
		label := 0
		if ex.IsRelevant(idx) {
			label = 1
		}
		rows = append(rows, pg.ScoreRow{
			RunID:   p.runID,
			QueryID: ex.ID,
			DocID:   ex.Documents[idx].ID,
			Rank:    rank + 1,
			Score:   scores[idx],
			Label:   label,
		})
	}

	if err := p.saver.SaveBulk(ctx, rows); err != nil {
		return fmt.Errorf("pg writer: %w", err)
	}
	slog.Debug("stored query scores", "run_id", p.runID, "query_id", ex.ID, "rows", len(rows))
	return nil
}
