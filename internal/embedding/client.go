package embedding

import "context"

const defaultModel = "nomic-embed-text"

// Request embeds one text.
type Request struct {
	Model   string         `json:"model"`
	Text    string         `json:"text"`
	Options map[string]any `json:"options,omitempty"`
}

type Response struct {
	Embedding []float32 `json:"embedding"`
}

// BatchRequest embeds many texts in one call; Embeddings in the response
// follow Texts order.
type BatchRequest struct {
	Model   string         `json:"model"`
	Texts   []string       `json:"texts"`
	Options map[string]any `json:"options,omitempty"`
}

type BatchResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	GenerateBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error)
}
