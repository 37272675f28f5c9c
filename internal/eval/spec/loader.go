package spec

import (
	"fmt"
	"os"

	"github.com/DjordjeVuckovic/rerank-eval/internal/apperr"
	"gopkg.in/yaml.v3"
)

func LoadFromFile(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}
	return Parse(data)
}

// Catalog is the reranker section of a spec on its own, used by the API
// server to build its rerankers once at startup.
type Catalog struct {
	Rerankers map[string]Reranker `yaml:"rerankers"`
	Cache     *Cache              `yaml:"cache,omitempty"`
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	if err := validateRerankers(c.Rerankers, c.Cache); err != nil {
		return nil, err
	}
	return &c, nil
}

func Parse(data []byte) (*RunSpec, error) {
	var s RunSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse spec YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ValidRerankerTypes lists the reranker backends the factory can build.
var ValidRerankerTypes = map[string]bool{
	"elasticsearch": true,
	"postgres":      true,
	"api":           true,
	"ollama":        true,
	"random":        true,
}

func ValidateReranker(name string, r Reranker) error {
	if r.Type == "" {
		return apperr.NewValidationf("reranker %q has no type", name)
	}
	if !ValidRerankerTypes[r.Type] {
		return apperr.NewValidationf("reranker %q has invalid type %q", name, r.Type)
	}
	if r.Type != "random" && r.Connection == "" {
		return apperr.NewValidationf("reranker %q has no connection", name)
	}
	if r.Type == "elasticsearch" && r.Index == "" {
		return apperr.NewValidationf("reranker %q has no index", name)
	}
	return nil
}

func validate(s *RunSpec) error {
	if err := validateRerankers(s.Rerankers, s.Cache); err != nil {
		return err
	}
	if err := ValidateEvaluation(&s.Evaluation, s.Rerankers); err != nil {
		return err
	}

	if s.Dataset.Format == "" {
		s.Dataset.Format = FormatYAML
	}
	switch s.Dataset.Format {
	case FormatYAML:
		if s.Dataset.Path == "" {
			return apperr.NewValidation("yaml dataset has no path")
		}
	case FormatTREC:
		if s.Dataset.Run == "" || s.Dataset.Qrels == "" || s.Dataset.Topics == "" || s.Dataset.Corpus == "" {
			return apperr.NewValidation("trec dataset needs run, qrels, topics and corpus")
		}
		if s.Dataset.Depth <= 0 {
			s.Dataset.Depth = DefaultTrecDepth
		}
	default:
		return apperr.NewValidationf("invalid dataset format %q", s.Dataset.Format)
	}

	if s.Output.Trec != "" && s.Output.RunName == "" {
		s.Output.RunName = s.Evaluation.Reranker
	}
	return nil
}

func validateRerankers(rerankers map[string]Reranker, cache *Cache) error {
	if len(rerankers) == 0 {
		return apperr.NewValidation("spec has no rerankers")
	}
	for name, r := range rerankers {
		if err := ValidateReranker(name, r); err != nil {
			return err
		}
		if r.Cache && cache == nil {
			return apperr.NewValidationf("reranker %q enables cache but spec has no cache section", name)
		}
	}
	if cache != nil && cache.RedisURL == "" {
		return apperr.NewValidation("cache section has no redis_url")
	}
	return nil
}

// ValidateEvaluation checks references against the available rerankers and
// fills in the default method and mono hits.
func ValidateEvaluation(e *Evaluation, rerankers map[string]Reranker) error {
	if e.Method == "" {
		e.Method = MethodSingle
	}
	if e.Method != MethodSingle && e.Method != MethodDuo {
		return apperr.NewValidationf("invalid evaluation method %q", e.Method)
	}
	if e.Reranker == "" {
		return apperr.NewValidation("evaluation has no reranker")
	}
	if _, ok := rerankers[e.Reranker]; !ok {
		return apperr.NewValidationf("evaluation references unknown reranker %q", e.Reranker)
	}
	if e.Method == MethodDuo {
		if e.DuoReranker == "" {
			return apperr.NewValidation("duo evaluation has no duo_reranker")
		}
		if _, ok := rerankers[e.DuoReranker]; !ok {
			return apperr.NewValidationf("evaluation references unknown duo reranker %q", e.DuoReranker)
		}
	}
	if e.MonoHits == nil {
		hits := DefaultMonoHits
		e.MonoHits = &hits
	}
	return nil
}
