package metrics

import (
	"sort"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
)

// RankOrder returns candidate indices sorted by score, highest first.
// Equal scores keep ascending index order.
func RankOrder(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

// ReciprocalRank accumulates 1/rank of the first relevant document in score
// order. With a positive cutoff only ranks 1..cutoff are eligible.
type ReciprocalRank struct {
	Mean
	cutoff int
}

func NewReciprocalRank(name string, cutoff int) *ReciprocalRank {
	return &ReciprocalRank{Mean: Mean{name: name}, cutoff: cutoff}
}

func (r *ReciprocalRank) Accumulate(scores []float64, ex *domain.RelevanceExample) {
	var rr float64
	for rank, idx := range RankOrder(scores) {
		if r.cutoff > 0 && rank >= r.cutoff {
			break
		}
		if ex.IsRelevant(idx) {
			rr = 1.0 / float64(rank+1)
			break
		}
	}
	r.add(rr)
}
