package dataset

import (
	"fmt"
	"os"

	"github.com/DjordjeVuckovic/rerank-eval/internal/apperr"
	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"gopkg.in/yaml.v3"
)

// Dataset is a named list of labeled queries.
type Dataset struct {
	Name     string
	Examples []domain.RelevanceExample
}

// File is the on-disk YAML layout of a dataset.
type File struct {
	Name    string      `yaml:"name"`
	Queries []FileQuery `yaml:"queries" schema:"required,minItems=1"`
}

type FileQuery struct {
	ID        string         `yaml:"id" schema:"required"`
	Query     string         `yaml:"query" schema:"required"`
	Documents []FileDocument `yaml:"documents"`
}

type FileDocument struct {
	ID       string `yaml:"id" schema:"required"`
	Title    string `yaml:"title,omitempty"`
	Text     string `yaml:"text"`
	Relevant bool   `yaml:"relevant,omitempty" description:"Whether the document answers the query"`
}

func LoadYAML(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}
	return ParseYAML(data)
}

func ParseYAML(data []byte) (*Dataset, error) {
	var raw File
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dataset YAML: %w", err)
	}

	if len(raw.Queries) == 0 {
		return nil, apperr.NewValidation("dataset has no queries")
	}

	ds := &Dataset{Name: raw.Name, Examples: make([]domain.RelevanceExample, 0, len(raw.Queries))}
	seen := make(map[string]bool, len(raw.Queries))

	for i, q := range raw.Queries {
		if q.ID == "" {
			return nil, apperr.NewValidationf("query at index %d has no id", i)
		}
		if seen[q.ID] {
			return nil, apperr.NewValidationf("duplicate query id %q", q.ID)
		}
		seen[q.ID] = true

		if q.Query == "" {
			return nil, apperr.NewValidationf("query %q has no text", q.ID)
		}

		ex := domain.RelevanceExample{
			ID:        q.ID,
			Query:     q.Query,
			Documents: make([]domain.Document, len(q.Documents)),
			Labels:    make([]int, len(q.Documents)),
		}
		for j, d := range q.Documents {
			if d.ID == "" {
				return nil, apperr.NewValidationf("query %q document %d has no id", q.ID, j)
			}
			ex.Documents[j] = domain.Document{ID: d.ID, Title: d.Title, Text: d.Text}
			if d.Relevant {
				ex.Labels[j] = 1
			}
		}
		ds.Examples = append(ds.Examples, ex)
	}

	return ds, nil
}
