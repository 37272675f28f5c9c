package es

import (
	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

const passageAnalyzer = "passage_analyzer"

// PassageDocument is the indexed form of a corpus document. Field names
// match the elasticsearch reranker defaults.
type PassageDocument struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

func toPassage(d domain.Document) PassageDocument {
	return PassageDocument{ID: d.ID, Title: d.Title, Text: d.Text}
}

func buildSettings() types.IndexSettings {
	return types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				passageAnalyzer: types.StandardAnalyzer{
					Stopwords: []string{"_english_"},
				},
			},
		},
	}
}

func buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":    types.NewKeywordProperty(),
			"title": textProperty(passageAnalyzer),
			"text":  textProperty(passageAnalyzer),
		},
	}
}

func textProperty(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	return textProp
}
