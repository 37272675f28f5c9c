package metrics

import "gonum.org/v1/gonum/floats"

// DefaultThresholdRatio is the fraction of the top score a candidate must reach
// to survive DynamicThreshold truncation.
const DefaultThresholdRatio = 0.5

// Truncator decides which candidate scores count before binarisation.
// Implementations return a new slice of the same length: selected positions keep
// their score, the rest are zero. The input is never modified.
type Truncator interface {
	Truncate(scores []float64) []float64
}

// Identity keeps every score.
type Identity struct{}

func (Identity) Truncate(scores []float64) []float64 {
	out := make([]float64, len(scores))
	copy(out, scores)
	return out
}

// TopK keeps the K highest-scoring positions. Ties are broken by original index,
// lower first. K <= 0 zeroes everything, K >= len(scores) keeps everything.
type TopK struct {
	K int
}

func (t TopK) Truncate(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if t.K <= 0 {
		return out
	}
	order := RankOrder(scores)
	for _, idx := range order[:min(t.K, len(order))] {
		out[idx] = scores[idx]
	}
	return out
}

// DynamicThreshold zeroes every score strictly below Ratio * max(scores).
type DynamicThreshold struct {
	Ratio float64
}

func (d DynamicThreshold) Truncate(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	threshold := d.Ratio * floats.Max(scores)
	for i, s := range scores {
		if s < threshold {
			continue
		}
		out[i] = s
	}
	return out
}
