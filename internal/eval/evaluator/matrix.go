package evaluator

import "github.com/DjordjeVuckovic/rerank-eval/internal/eval/metrics"

// ScoreMatrix holds one score row per query. Rows may differ in length
// because each query carries its own candidate list.
type ScoreMatrix [][]float64

// Shortlist returns the column indices of the n highest scores of a row,
// best first. Ties keep the lower column first. n <= 0 yields nothing and
// n beyond the row length yields the whole row.
func (m ScoreMatrix) Shortlist(row, n int) []int {
	if n <= 0 {
		return nil
	}
	order := metrics.RankOrder(m[row])
	if n < len(order) {
		order = order[:n]
	}
	return order
}

// Overwrite replaces the given columns of a row with values, pairwise.
func (m ScoreMatrix) Overwrite(row int, cols []int, values []float64) {
	for j, col := range cols {
		m[row][col] = values[j]
	}
}
