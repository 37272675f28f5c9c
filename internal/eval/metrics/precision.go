package metrics

import "github.com/DjordjeVuckovic/rerank-eval/internal/domain"

// Precision accumulates, per query, the fraction of selected candidates that are
// relevant. A candidate is selected when its truncated score is non-zero.
// Queries where nothing is selected contribute no value.
type Precision struct {
	Mean
	truncator Truncator
}

func NewPrecision(name string, t Truncator) *Precision {
	return &Precision{Mean: Mean{name: name}, truncator: t}
}

func (p *Precision) Accumulate(scores []float64, ex *domain.RelevanceExample) {
	selected, hits := countSelected(p.truncator.Truncate(scores), ex)
	if selected == 0 {
		return
	}
	p.add(float64(hits) / float64(selected))
}

// Recall accumulates, per query, the fraction of relevant documents that are
// selected. Queries with no relevant documents contribute 0.
type Recall struct {
	Mean
	truncator Truncator
}

func NewRecall(name string, t Truncator) *Recall {
	return &Recall{Mean: Mean{name: name}, truncator: t}
}

func (r *Recall) Accumulate(scores []float64, ex *domain.RelevanceExample) {
	positives := ex.Positives()
	if positives == 0 {
		r.add(0)
		return
	}
	_, hits := countSelected(r.truncator.Truncate(scores), ex)
	r.add(float64(hits) / float64(positives))
}

// NewThresholdedPrecision is precision over candidates within DefaultThresholdRatio
// of the top score.
func NewThresholdedPrecision(name string) *Precision {
	return NewPrecision(name, DynamicThreshold{Ratio: DefaultThresholdRatio})
}

// NewThresholdedRecall is recall over candidates within DefaultThresholdRatio of
// the top score.
func NewThresholdedRecall(name string) *Recall {
	return NewRecall(name, DynamicThreshold{Ratio: DefaultThresholdRatio})
}

func countSelected(counted []float64, ex *domain.RelevanceExample) (selected, hits int) {
	for i, s := range counted {
		if s == 0 {
			continue
		}
		selected++
		if ex.IsRelevant(i) {
			hits++
		}
	}
	return selected, hits
}
