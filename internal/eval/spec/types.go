package spec

import "time"

const (
	MethodSingle = "single"
	MethodDuo    = "duo"

	FormatYAML = "yaml"
	FormatTREC = "trec"

	DefaultMonoHits  = 10
	DefaultTrecDepth = 1000
)

// RunSpec describes one evaluation run: which rerankers to build, which
// dataset to score and where results go.
type RunSpec struct {
	Dataset    Dataset             `yaml:"dataset" schema:"required"`
	Rerankers  map[string]Reranker `yaml:"rerankers" schema:"required"`
	Evaluation Evaluation          `yaml:"evaluation" schema:"required"`
	Output     Output              `yaml:"output"`
	Cache      *Cache              `yaml:"cache,omitempty"`
}

type Dataset struct {
	Format string `yaml:"format" schema:"enum=yaml|trec,default=yaml"`
	Path   string `yaml:"path,omitempty"`
	Run    string `yaml:"run,omitempty"`
	Qrels  string `yaml:"qrels,omitempty"`
	Topics string `yaml:"topics,omitempty"`
	Corpus string `yaml:"corpus,omitempty"`
	Depth  int    `yaml:"depth,omitempty"`
}

type Reranker struct {
	Type       string `yaml:"type" schema:"required,enum=elasticsearch|postgres|api|ollama|random"`
	Connection string `yaml:"connection,omitempty"`
	Index      string `yaml:"index,omitempty"`
	Field      string `yaml:"field,omitempty"`
	IDField    string `yaml:"id_field,omitempty"`
	Language   string `yaml:"language,omitempty"`
	Model      string `yaml:"model,omitempty"`
	Seed       uint64 `yaml:"seed,omitempty"`
	Cache      bool   `yaml:"cache,omitempty"`
}

type Evaluation struct {
	Method      string   `yaml:"method" schema:"enum=single|duo,default=single"`
	Reranker    string   `yaml:"reranker" schema:"required" description:"Name of an entry in rerankers"`
	DuoReranker string   `yaml:"duo_reranker,omitempty"`
	MonoHits    *int     `yaml:"mono_hits,omitempty"`
	Metrics     []string `yaml:"metrics,omitempty"`
}

type Output struct {
	Report   string `yaml:"report,omitempty"`
	Trec     string `yaml:"trec,omitempty"`
	RunName  string `yaml:"run_name,omitempty"`
	Postgres string `yaml:"postgres,omitempty"`
}

type Cache struct {
	RedisURL string        `yaml:"redis_url" schema:"required"`
	TTL      time.Duration `yaml:"ttl,omitempty"`
}

// Hits is the duo shortlist size. An explicit zero or negative value is
// kept and means the duo reranker is never called.
func (e Evaluation) Hits() int {
	if e.MonoHits == nil {
		return DefaultMonoHits
	}
	return *e.MonoHits
}
