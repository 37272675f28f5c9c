package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
)

// APIReranker calls a cross-encoder service exposing POST /rerank, the
// shape served by text-embeddings-inference.
type APIReranker struct {
	name    string
	baseURL string
	model   string
	client  *http.Client
}

func NewAPIReranker(name, baseURL, model string) *APIReranker {
	return &APIReranker{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type apiRerankRequest struct {
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	Model     string   `json:"model,omitempty"`
	RawScores bool     `json:"raw_scores"`
}

type apiRerankHit struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

func (r *APIReranker) Rerank(ctx context.Context, query string, docs []domain.Document) ([]Scored, error) {
	if len(docs) == 0 {
		return []Scored{}, nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content()
	}

	payload, err := json.Marshal(apiRerankRequest{Query: query, Texts: texts, Model: r.model, RawScores: true})
	if err != nil {
		return nil, fmt.Errorf("api marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/rerank", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("api create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("api request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api status %d: %s", resp.StatusCode, string(body))
	}

	var hits []apiRerankHit
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, fmt.Errorf("api parse response: %w", err)
	}

	// The service returns hits sorted by score; put them back in input order.
	scores := make([]float64, len(docs))
	seen := make([]bool, len(docs))
	for _, h := range hits {
		if h.Index < 0 || h.Index >= len(docs) {
			return nil, fmt.Errorf("api returned index %d for %d documents", h.Index, len(docs))
		}
		scores[h.Index] = h.Score
		seen[h.Index] = true
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("api returned no score for document %d", i)
		}
	}

	return zip(docs, scores), nil
}

func (r *APIReranker) Name() string { return r.name }
func (r *APIReranker) Close() error { return nil }
