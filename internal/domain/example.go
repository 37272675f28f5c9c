package domain

import "github.com/DjordjeVuckovic/rerank-eval/internal/apperr"

// RelevanceExample is one labeled query: candidate documents and a binary
// relevance label per document, index-aligned.
type RelevanceExample struct {
	ID        string     `json:"id" yaml:"id"`
	Query     string     `json:"query" yaml:"query"`
	Documents []Document `json:"documents" yaml:"documents"`
	Labels    []int      `json:"labels" yaml:"labels"`
}

func (e *RelevanceExample) Validate() error {
	if len(e.Labels) != len(e.Documents) {
		return apperr.NewValidationf("example %q has %d labels for %d documents", e.ID, len(e.Labels), len(e.Documents))
	}
	for i, l := range e.Labels {
		if l != 0 && l != 1 {
			return apperr.NewValidationf("example %q label at index %d must be 0 or 1, got %d", e.ID, i, l)
		}
	}
	return nil
}

// Positives returns the number of gold-relevant documents.
func (e *RelevanceExample) Positives() int {
	var n int
	for _, l := range e.Labels {
		if l != 0 {
			n++
		}
	}
	return n
}

func (e *RelevanceExample) IsRelevant(i int) bool {
	return e.Labels[i] != 0
}
