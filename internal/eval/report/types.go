package report

import (
	"runtime"
	"time"

	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/latency"
	"github.com/google/uuid"
)

type Report struct {
	Meta    RunMeta       `json:"meta"`
	Metrics []MetricEntry `json:"metrics"`
	Latency []LatencyRow  `json:"latency,omitempty"`
}

type RunMeta struct {
	RunID       uuid.UUID               `json:"run_id"`
	Version     string                  `json:"version"`
	Timestamp   time.Time               `json:"timestamp"`
	Duration    time.Duration           `json:"duration"`
	Method      string                  `json:"method"`
	MonoHits    *int                    `json:"mono_hits,omitempty"`
	Dataset     DatasetInfo             `json:"dataset"`
	Rerankers   map[string]RerankerInfo `json:"rerankers"`
	Environment EnvironmentInfo         `json:"environment"`
}

type DatasetInfo struct {
	Name    string `json:"name,omitempty"`
	Queries int    `json:"queries"`
}

type RerankerInfo struct {
	Role string `json:"role"`
	Type string `json:"type"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

// MetricEntry holds one aggregate. Value is nil when no query contributed,
// since JSON has no NaN.
type MetricEntry struct {
	Name    string   `json:"name"`
	Value   *float64 `json:"value"`
	Queries int      `json:"queries"`
}

type LatencyRow struct {
	Reranker string        `json:"reranker"`
	Stats    latency.Stats `json:"stats"`
}
