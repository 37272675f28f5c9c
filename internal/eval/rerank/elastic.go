package rerank

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/storage/es"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

const (
	defaultESField   = "text"
	defaultESIDField = "id"
)

// ElasticReranker scores candidates with the BM25 score Elasticsearch
// assigns to each of them for the query. Candidates must already be indexed
// with a source field (IDField, "id" by default) equal to Document.ID.
// Candidates that do not match the query score 0.
type ElasticReranker struct {
	name    string
	index   string
	field   string
	idField string
	client  *elasticsearch.TypedClient
}

type ElasticConfig struct {
	Addresses []string
	Index     string
	Field     string
	IDField   string
	Username  string
	Password  string
}

func NewElasticReranker(name string, cfg ElasticConfig) (*ElasticReranker, error) {
	client, err := es.NewClient(es.ClientConfig{
		Addresses: cfg.Addresses,
		IndexName: cfg.Index,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	field := cfg.Field
	if field == "" {
		field = defaultESField
	}

	idField := cfg.IDField
	if idField == "" {
		idField = defaultESIDField
	}

	return &ElasticReranker{
		name:    name,
		index:   cfg.Index,
		field:   field,
		idField: idField,
		client:  client,
	}, nil
}

func (r *ElasticReranker) Rerank(ctx context.Context, query string, docs []domain.Document) ([]Scored, error) {
	if len(docs) == 0 {
		return []Scored{}, nil
	}

	ids := domain.DocumentIDs(docs)

	res, err := r.client.Search().
		Index(r.index).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Filter: []types.Query{
					{Terms: &types.TermsQuery{
						TermsQuery: map[string]types.TermsQueryField{r.idField: ids},
					}},
				},
				Must: []types.Query{
					{Match: map[string]types.MatchQuery{
						r.field: {Query: query},
					}},
				},
			},
		}).
		Size(len(ids)).
		TrackScores(true).
		Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch rerank query failed", "error", err, "index", r.index)
		return nil, fmt.Errorf("es rerank search: %w", err)
	}

	byID := make(map[string]float64, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var src map[string]any
		if err := json.Unmarshal(hit.Source_, &src); err != nil {
			return nil, fmt.Errorf("es parse hit source: %w", err)
		}
		id, _ := src[r.idField].(string)
		if hit.Score_ != nil {
			byID[id] = float64(*hit.Score_)
		}
	}

	scores := make([]float64, len(docs))
	for i, id := range ids {
		scores[i] = byID[id]
	}

	slog.Debug("ES rerank scored candidates", "reranker", r.name, "candidates", len(docs), "matched", len(byID))
	return zip(docs, scores), nil
}

func (r *ElasticReranker) Name() string { return r.name }
func (r *ElasticReranker) Close() error { return nil }
