package domain

import (
	"errors"
	"testing"

	"github.com/DjordjeVuckovic/rerank-eval/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docs(n int) []Document {
	out := make([]Document, n)
	for i := range out {
		out[i] = Document{ID: string(rune('a' + i)), Text: "text"}
	}
	return out
}

func TestRelevanceExample_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ex      RelevanceExample
		wantErr string
	}{
		{
			name: "aligned binary labels",
			ex:   RelevanceExample{ID: "q1", Documents: docs(3), Labels: []int{1, 0, 1}},
		},
		{
			name: "empty example",
			ex:   RelevanceExample{ID: "q0"},
		},
		{
			name:    "length mismatch",
			ex:      RelevanceExample{ID: "q2", Documents: docs(3), Labels: []int{1, 0}},
			wantErr: "2 labels for 3 documents",
		},
		{
			name:    "graded label",
			ex:      RelevanceExample{ID: "q3", Documents: docs(2), Labels: []int{2, 0}},
			wantErr: "must be 0 or 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ex.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var ve *apperr.ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestRelevanceExample_Positives(t *testing.T) {
	ex := RelevanceExample{Documents: docs(4), Labels: []int{1, 0, 1, 0}}
	assert.Equal(t, 2, ex.Positives())
	assert.True(t, ex.IsRelevant(0))
	assert.False(t, ex.IsRelevant(1))
}

func TestDocument_Content(t *testing.T) {
	assert.Equal(t, "body", Document{Text: "body"}.Content())
	assert.Equal(t, "title\nbody", Document{Title: "title", Text: "body"}.Content())
	assert.Equal(t, []string{"a", "b"}, DocumentIDs(docs(2)))
}
