package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/DjordjeVuckovic/rerank-eval/internal/apperr"
	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/dataset"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/evaluator"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/latency"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/metrics"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/report"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/rerank"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/spec"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/writer"
	"github.com/DjordjeVuckovic/rerank-eval/internal/storage/pg"
	"github.com/google/uuid"
)

type Runner struct {
	config Config
}

func New(cfg Config) *Runner {
	if cfg.Registry == nil {
		cfg.Registry = DefaultConfig().Registry
	}
	if cfg.Version == "" {
		cfg.Version = Version
	}
	return &Runner{config: cfg}
}

func (r *Runner) Registry() *metrics.Registry { return r.config.Registry }

// Run loads the dataset, builds the rerankers and evaluates end to end.
func (r *Runner) Run(ctx context.Context, s *spec.RunSpec) (*report.Report, error) {
	ds, err := dataset.FromSpec(s.Dataset)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	rerankers, cleanup, err := rerank.CreateFromSpec(ctx, s.Rerankers, s.Cache)
	if err != nil {
		return nil, fmt.Errorf("create rerankers: %w", err)
	}
	defer cleanup()

	return r.RunWith(ctx, s, ds, rerankers)
}

// RunWith evaluates ds with already built rerankers. Outputs named in the
// spec are opened here and flushed before returning.
func (r *Runner) RunWith(
	ctx context.Context,
	s *spec.RunSpec,
	ds *dataset.Dataset,
	rerankers map[string]rerank.Reranker,
) (*report.Report, error) {
	runID := uuid.New()
	start := time.Now()

	names := s.Evaluation.Metrics
	if len(names) == 0 {
		names = r.config.Registry.Names()
	}

	mono, err := lookup(rerankers, s.Evaluation.Reranker)
	if err != nil {
		return nil, err
	}
	timed := map[string]*rerank.TimedReranker{s.Evaluation.Reranker: rerank.NewTimedReranker(mono)}

	out, closeOutputs, err := r.openOutputs(ctx, runID, s.Output)
	if err != nil {
		return nil, err
	}
	defer closeOutputs()

	opts := []evaluator.Option{evaluator.WithRegistry(r.config.Registry)}
	if out != nil {
		opts = append(opts, evaluator.WithWriter(out))
	}

	var accs []metrics.Accumulator
	switch s.Evaluation.Method {
	case spec.MethodDuo:
		duo, err := lookup(rerankers, s.Evaluation.DuoReranker)
		if err != nil {
			return nil, err
		}
		if _, ok := timed[s.Evaluation.DuoReranker]; !ok {
			timed[s.Evaluation.DuoReranker] = rerank.NewTimedReranker(duo)
		}
		opts = append(opts, evaluator.WithMonoHits(s.Evaluation.Hits()))

		e, err := evaluator.NewDuo(timed[s.Evaluation.Reranker], timed[s.Evaluation.DuoReranker], names, opts...)
		if err != nil {
			return nil, err
		}
		accs, err = e.Evaluate(ctx, ds.Examples)
		if err != nil {
			return nil, err
		}

	default:
		e, err := evaluator.New(timed[s.Evaluation.Reranker], names, opts...)
		if err != nil {
			return nil, err
		}
		accs, err = e.Evaluate(ctx, ds.Examples)
		if err != nil {
			return nil, err
		}
	}

	if out != nil {
		if err := writer.Flush(out); err != nil {
			return nil, fmt.Errorf("flush outputs: %w", err)
		}
	}

	lat := make(map[string]latency.Stats, len(timed))
	for name, t := range timed {
		lat[name] = t.Latency()
	}

	meta := report.RunMeta{
		RunID:     runID,
		Version:   r.config.Version,
		Timestamp: start.UTC(),
		Duration:  time.Since(start),
		Method:    s.Evaluation.Method,
		Dataset:   report.DatasetInfo{Name: ds.Name, Queries: len(ds.Examples)},
		Rerankers: rerankerInfo(s),
	}
	if s.Evaluation.Method == spec.MethodDuo {
		hits := s.Evaluation.Hits()
		meta.MonoHits = &hits
	}

	slog.Info("run finished", "run_id", runID, "queries", len(ds.Examples), "duration", meta.Duration)
	return report.Generate(meta, accs, lat), nil
}

// Examples wraps inline examples as an unnamed dataset.
func Examples(examples []domain.RelevanceExample) *dataset.Dataset {
	return &dataset.Dataset{Examples: examples}
}

func lookup(rerankers map[string]rerank.Reranker, name string) (rerank.Reranker, error) {
	r, ok := rerankers[name]
	if !ok {
		return nil, apperr.NewNotFound("reranker", name)
	}
	return r, nil
}

func rerankerInfo(s *spec.RunSpec) map[string]report.RerankerInfo {
	info := map[string]report.RerankerInfo{
		s.Evaluation.Reranker: {Role: "mono", Type: s.Rerankers[s.Evaluation.Reranker].Type},
	}
	if s.Evaluation.Method == spec.MethodDuo && s.Evaluation.DuoReranker != s.Evaluation.Reranker {
		info[s.Evaluation.DuoReranker] = report.RerankerInfo{Role: "duo", Type: s.Rerankers[s.Evaluation.DuoReranker].Type}
	}
	return info
}

func (r *Runner) openOutputs(ctx context.Context, runID uuid.UUID, o spec.Output) (writer.Writer, func(), error) {
	var writers writer.Multi
	var closers []func()

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if o.Trec != "" {
		if dir := filepath.Dir(o.Trec); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create trec output dir: %w", err)
			}
		}
		f, err := os.Create(o.Trec)
		if err != nil {
			return nil, nil, fmt.Errorf("open trec output: %w", err)
		}
		closers = append(closers, func() { _ = f.Close() })
		writers = append(writers, writer.NewTrecWriter(f, o.RunName))
	}

	if o.Postgres != "" {
		pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: o.Postgres})
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open score store: %w", err)
		}
		closers = append(closers, pool.Close)
		writers = append(writers, writer.NewPgWriter(runID, pg.NewScoreIndexer(pool)))
	}

	if r.config.Scores != nil {
		writers = append(writers, writer.NewPgWriter(runID, r.config.Scores))
	}

	if len(writers) == 0 {
		return nil, closeAll, nil
	}
	return writers, closeAll, nil
}
