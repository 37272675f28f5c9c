package metrics

import (
	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// Accumulator consumes one score vector per query and keeps a running aggregate.
// Scores passed to Accumulate must be index-aligned with ex.Labels.
type Accumulator interface {
	Name() string
	Accumulate(scores []float64, ex *domain.RelevanceExample)
	// Value is the aggregate over every accumulated query. It is NaN when
	// nothing was accumulated.
	Value() float64
	// Count is the number of per-query values that contributed to Value.
	Count() int
}

// Mean aggregates per-query values by their arithmetic mean.
type Mean struct {
	name   string
	values []float64
}

func (m *Mean) Name() string { return m.name }

func (m *Mean) Value() float64 {
	return stat.Mean(m.values, nil)
}

func (m *Mean) Count() int { return len(m.values) }

// Values returns a copy of the per-query values in accumulation order.
func (m *Mean) Values() []float64 {
	out := make([]float64, len(m.values))
	copy(out, m.values)
	return out
}

func (m *Mean) add(v float64) {
	m.values = append(m.values, v)
}
