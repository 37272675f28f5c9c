package report

import (
	"math"
	"sort"
	"time"

	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/latency"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/metrics"
)

// Generate builds a report from completed accumulators, keeping their order.
// Latency rows are sorted by reranker name.
func Generate(meta RunMeta, accs []metrics.Accumulator, lat map[string]latency.Stats) *Report {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	if meta.Environment == (EnvironmentInfo{}) {
		meta.Environment = NewEnvironmentInfo()
	}

	r := &Report{
		Meta:    meta,
		Metrics: make([]MetricEntry, 0, len(accs)),
	}

	for _, acc := range accs {
		entry := MetricEntry{Name: acc.Name(), Queries: acc.Count()}
		if v := acc.Value(); !math.IsNaN(v) {
			entry.Value = &v
		}
		r.Metrics = append(r.Metrics, entry)
	}

	names := make([]string, 0, len(lat))
	for name := range lat {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.Latency = append(r.Latency, LatencyRow{Reranker: name, Stats: lat[name]})
	}

	return r
}
