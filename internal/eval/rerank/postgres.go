package rerank

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/storage/pg"
)

const defaultPgLanguage = "english"

// PgReranker scores candidates with PostgreSQL full text search. Documents
// travel with the query, so no table is needed: ts_rank_cd runs over the
// unnested candidate texts and the ordinality column maps scores back.
type PgReranker struct {
	name     string
	language string
	pool     *pg.ConnectionPool
}

func NewPgReranker(name string, pool *pg.ConnectionPool, language string) *PgReranker {
	if language == "" {
		language = defaultPgLanguage
	}
	return &PgReranker{name: name, language: language, pool: pool}
}

const pgRerankQuery = `
SELECT c.ord, ts_rank_cd(to_tsvector($1::regconfig, c.body), plainto_tsquery($1::regconfig, $2))::float8
FROM unnest($3::text[]) WITH ORDINALITY AS c(body, ord)`

func (r *PgReranker) Rerank(ctx context.Context, query string, docs []domain.Document) ([]Scored, error) {
	if len(docs) == 0 {
		return []Scored{}, nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content()
	}

	rows, err := r.pool.GetConn().Query(ctx, pgRerankQuery, r.language, query, texts)
	if err != nil {
		return nil, fmt.Errorf("pg rerank query: %w", err)
	}
	defer rows.Close()

	scores := make([]float64, len(docs))
	for rows.Next() {
		var ord int64
		var score float64
		if err := rows.Scan(&ord, &score); err != nil {
			return nil, fmt.Errorf("pg scan score: %w", err)
		}
		if ord < 1 || ord > int64(len(docs)) {
			return nil, fmt.Errorf("pg returned ordinal %d for %d documents", ord, len(docs))
		}
		scores[ord-1] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pg rows: %w", err)
	}

	return zip(docs, scores), nil
}

func (r *PgReranker) Name() string { return r.name }
func (r *PgReranker) Close() error { return nil }
