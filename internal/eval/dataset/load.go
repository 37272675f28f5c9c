package dataset

import (
	"fmt"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/spec"
)

// FromSpec loads the dataset a run spec points at.
func FromSpec(d spec.Dataset) (*Dataset, error) {
	switch d.Format {
	case spec.FormatYAML, "":
		return LoadYAML(d.Path)
	case spec.FormatTREC:
		return LoadTREC(TRECSource{
			Run:    d.Run,
			Qrels:  d.Qrels,
			Topics: d.Topics,
			Corpus: d.Corpus,
			Depth:  d.Depth,
		})
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", d.Format)
	}
}

// Documents returns every distinct document across the dataset's examples,
// in first-seen order.
func (d *Dataset) Documents() []domain.Document {
	seen := make(map[string]bool)
	var docs []domain.Document
	for _, ex := range d.Examples {
		for _, doc := range ex.Documents {
			if seen[doc.ID] {
				continue
			}
			seen[doc.ID] = true
			docs = append(docs, doc)
		}
	}
	return docs
}
