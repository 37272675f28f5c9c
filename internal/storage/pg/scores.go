package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScoreRow is one ranked (query, document) pair of an evaluation run.
type ScoreRow struct {
	RunID   uuid.UUID
	QueryID string
	DocID   string
	Rank    int
	Score   float64
	Label   int
}

type ScoreIndexer struct {
	db *pgxpool.Pool
}

func NewScoreIndexer(pool *ConnectionPool) *ScoreIndexer {
	return &ScoreIndexer{db: pool.GetConn()}
}

func (s *ScoreIndexer) SaveBulk(ctx context.Context, scores []ScoreRow) error {
	if len(scores) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(scores))
	for i, r := range scores {
		rows[i] = []interface{}{r.RunID, r.QueryID, r.DocID, r.Rank, r.Score, int16(r.Label)}
	}

	_, err := s.db.CopyFrom(
		ctx,
		pgx.Identifier{"rerank_scores"},
		[]string{"run_id", "query_id", "doc_id", "rank", "score", "label"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert rerank scores: %w", err)
	}
	return nil
}

// Run returns every stored row of a run ordered by query and rank.
func (s *ScoreIndexer) Run(ctx context.Context, runID uuid.UUID) ([]ScoreRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT run_id, query_id, doc_id, rank, score, label
		FROM rerank_scores
		WHERE run_id = $1
		ORDER BY query_id, rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rerank scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreRow
	for rows.Next() {
		var r ScoreRow
		var label int16
		if err := rows.Scan(&r.RunID, &r.QueryID, &r.DocID, &r.Rank, &r.Score, &label); err != nil {
			return nil, fmt.Errorf("failed to scan rerank score: %w", err)
		}
		r.Label = int(label)
		out = append(out, r)
	}
	return out, rows.Err()
}
