package main

import (
	"flag"
	"fmt"

	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/runner"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/spec"
	"github.com/DjordjeVuckovic/rerank-eval/pkg/utils"
)

const quickReranker = "quick"

type cliConfig struct {
	SpecPath    string
	DatasetPath string
	Reranker    string
	Connection  string
	Index       string
	Model       string
	Seed        uint64
	Metrics     string
	Output      string
	Trec        string
	Format      string
	ListMetrics bool
	Threshold   bool
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.SpecPath, "spec", "", "Path to run spec YAML")
	flag.StringVar(&cfg.DatasetPath, "dataset", "", "Path to dataset YAML (quick mode, ignored with -spec)")
	flag.StringVar(&cfg.Reranker, "reranker", "random", "Reranker type for quick mode: elasticsearch, postgres, api, ollama, random")
	flag.StringVar(&cfg.Connection, "conn", "", "Reranker connection (addresses, DSN or base URL)")
	flag.StringVar(&cfg.Index, "index", "", "Elasticsearch index name")
	flag.StringVar(&cfg.Model, "model", "", "Model name for api and ollama rerankers")
	flag.Uint64Var(&cfg.Seed, "seed", 0, "Seed for the random reranker")
	flag.StringVar(&cfg.Metrics, "metrics", "", "Metric names, comma-separated (default: all registered)")
	flag.StringVar(&cfg.Output, "output", "", "Output path for the JSON report")
	flag.StringVar(&cfg.Trec, "trec", "", "Output path for a TREC run file")
	flag.StringVar(&cfg.Format, "format", "table", "Stdout format: table, tsv or json")
	flag.BoolVar(&cfg.ListMetrics, "list-metrics", false, "Print registered metric names and exit")
	flag.BoolVar(&cfg.Threshold, "threshold-metrics", false, "Also register precision@threshold and recall@threshold")

	flag.Parse()
	return cfg
}

func (c cliConfig) runnerConfig() runner.Config {
	cfg := runner.DefaultConfig()
	if c.Threshold {
		cfg = cfg.WithThresholdMetrics()
	}
	return cfg
}

func (c cliConfig) parseMetrics() []string {
	return utils.SplitTrimmed(c.Metrics, ",")
}

func (c cliConfig) validateFormat() error {
	switch c.Format {
	case "table", "tsv", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
}

// quickSpec builds a single-reranker run over a YAML dataset from flags.
func (c cliConfig) quickSpec() (*spec.RunSpec, error) {
	if c.DatasetPath == "" {
		return nil, fmt.Errorf("quick mode requires -dataset")
	}

	rs := spec.Reranker{
		Type:       c.Reranker,
		Connection: c.Connection,
		Index:      c.Index,
		Model:      c.Model,
		Seed:       c.Seed,
	}
	if err := spec.ValidateReranker(quickReranker, rs); err != nil {
		return nil, err
	}

	s := &spec.RunSpec{
		Dataset:   spec.Dataset{Format: spec.FormatYAML, Path: c.DatasetPath},
		Rerankers: map[string]spec.Reranker{quickReranker: rs},
		Evaluation: spec.Evaluation{
			Method:   spec.MethodSingle,
			Reranker: quickReranker,
			Metrics:  c.parseMetrics(),
		},
		Output: spec.Output{RunName: c.Reranker},
	}
	if err := spec.ValidateEvaluation(&s.Evaluation, s.Rerankers); err != nil {
		return nil, err
	}
	return s, nil
}

// applyOverrides lets flags win over what a spec file names.
func (c cliConfig) applyOverrides(s *spec.RunSpec) {
	if names := c.parseMetrics(); len(names) > 0 {
		s.Evaluation.Metrics = names
	}
	if c.Output != "" {
		s.Output.Report = c.Output
	}
	if c.Trec != "" {
		s.Output.Trec = c.Trec
		if s.Output.RunName == "" {
			s.Output.RunName = s.Evaluation.Reranker
		}
	}
}
