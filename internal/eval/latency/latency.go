package latency

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

type Stats struct {
	Min         time.Duration         `json:"min"`
	Max         time.Duration         `json:"max"`
	Mean        time.Duration         `json:"mean"`
	Median      time.Duration         `json:"median"`
	Stddev      time.Duration         `json:"stddev"`
	Percentiles map[int]time.Duration `json:"percentiles"`
	SampleCount int                   `json:"sample_count"`
}

var defaultPercentiles = []int{50, 90, 95, 99}

// Compute summarises durations. Stddev is the sample deviation and
// percentiles interpolate linearly between closest ranks.
func Compute(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{Percentiles: make(map[int]time.Duration)}
	}

	sorted := make([]float64, len(durations))
	for i, d := range durations {
		sorted[i] = float64(d)
	}
	sort.Float64s(sorted)

	s := Stats{
		Min:         time.Duration(sorted[0]),
		Max:         time.Duration(sorted[len(sorted)-1]),
		Median:      percentile(sorted, 50),
		Percentiles: make(map[int]time.Duration, len(defaultPercentiles)),
		SampleCount: len(sorted),
	}

	mean, std := stat.MeanStdDev(sorted, nil)
	s.Mean = time.Duration(mean)
	if len(sorted) > 1 {
		s.Stddev = time.Duration(std)
	}

	for _, p := range defaultPercentiles {
		s.Percentiles[p] = percentile(sorted, p)
	}
	return s
}

func percentile(sorted []float64, p int) time.Duration {
	if len(sorted) == 1 {
		return time.Duration(sorted[0])
	}

	rank := float64(p) / 100.0 * float64(len(sorted)-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= len(sorted) {
		return time.Duration(sorted[len(sorted)-1])
	}

	weight := rank - float64(lower)
	return time.Duration(sorted[lower]*(1-weight) + sorted[upper]*weight)
}

func (s Stats) P50() time.Duration { return s.Percentiles[50] }
func (s Stats) P95() time.Duration { return s.Percentiles[95] }
func (s Stats) P99() time.Duration { return s.Percentiles[99] }

func (s Stats) IsZero() bool {
	return s.SampleCount == 0
}

// Recorder collects durations from concurrent callers.
type Recorder struct {
	mu      sync.Mutex
	samples []time.Duration
}

func (r *Recorder) Record(d time.Duration) {
	r.mu.Lock()
	r.samples = append(r.samples, d)
	r.mu.Unlock()
}

func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	samples := append([]time.Duration(nil), r.samples...)
	r.mu.Unlock()
	return Compute(samples)
}
