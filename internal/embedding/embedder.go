package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
)

type Embedder struct {
	maxLength *int
	model     string
	task      string

	client Client
}

type Vec struct {
	Embedding []float32
	Model     string
	ID        string
}

type EmbedderOption func(e *Embedder)

const defaultTask = "Given a research question, retrieve passages that answer it"

func NewEmbedder(client Client, opts ...EmbedderOption) *Embedder {
	base := &Embedder{
		model:  defaultModel,
		task:   defaultTask,
		client: client,
	}

	for _, opt := range opts {
		opt(base)
	}

	return base
}

func WithModel(model string) EmbedderOption {
	return func(e *Embedder) {
		if model != "" {
			e.model = model
		}
	}
}

func WithMaxLength(length int) EmbedderOption {
	return func(e *Embedder) {
		e.maxLength = &length
	}
}

func WithTask(task string) EmbedderOption {
	return func(e *Embedder) {
		e.task = task
	}
}

func (e *Embedder) Model() string { return e.model }

func (e *Embedder) EmbedQuery(ctx context.Context, query string) (*Vec, error) {
	instruct := wrapWithInstruct(e.task, strings.TrimSpace(query))

	slog.Debug("embedding query with instruct", "task", e.task, "query", query)

	embed, err := e.client.Generate(ctx, Request{
		Model: e.model,
		Text:  instruct,
	})
	if err != nil {
		return nil, err
	}

	return &Vec{
		Embedding: e.truncate(embed.Embedding),
		Model:     e.model,
	}, nil
}

func (e *Embedder) EmbedDocs(ctx context.Context, docs []domain.Document) ([]Vec, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = docText(doc)
	}

	slog.Debug("Bulk embedding documents", "count", len(docs))

	resp, err := e.client.GenerateBatch(ctx, BatchRequest{
		Model: e.model,
		Texts: texts,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(docs) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(docs), len(resp.Embeddings))
	}

	vecs := make([]Vec, len(docs))
	for i, emb := range resp.Embeddings {
		vecs[i] = Vec{
			Embedding: e.truncate(emb),
			Model:     e.model,
			ID:        docs[i].ID,
		}
	}

	slog.Debug("Generated bulk embeddings", "count", len(vecs), "model", e.model)
	return vecs, nil
}

func (e *Embedder) truncate(v []float32) []float32 {
	if e.maxLength != nil && len(v) > *e.maxLength {
		return v[:*e.maxLength]
	}
	return v
}

func docText(doc domain.Document) string {
	return strings.TrimSpace(doc.Content())
}

func wrapWithInstruct(task, query string) string {
	return fmt.Sprintf("Instruct: %s\nQuery:%s", task, query)
}
