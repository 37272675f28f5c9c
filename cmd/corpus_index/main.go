package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/dataset"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/spec"
	"github.com/DjordjeVuckovic/rerank-eval/internal/storage/es"
	"github.com/DjordjeVuckovic/rerank-eval/pkg/utils"
)

// corpus_index loads a run spec's dataset into the index of every
// elasticsearch reranker the run spec declares.
func main() {
	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := spec.LoadFromFile(cfg.SpecPath)
	if err != nil {
		slog.Error("failed to load run spec", "error", err)
		os.Exit(1)
	}

	ds, err := dataset.FromSpec(s.Dataset)
	if err != nil {
		slog.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	docs := ds.Documents()

	indexed := 0
	for name, r := range s.Rerankers {
		if r.Type != "elasticsearch" {
			continue
		}
		slog.Info("Indexing corpus", "reranker", name, "index", r.Index, "documents", len(docs))

		ix, err := es.NewCorpusIndexer(ctx, es.ClientConfig{
			Addresses: utils.SplitTrimmed(r.Connection, ","),
			IndexName: r.Index,
			Username:  cfg.Username,
			Password:  cfg.Password,
		})
		if err != nil {
			slog.Error("failed to create indexer", "reranker", name, "error", err)
			os.Exit(1)
		}

		for _, batch := range batches(docs, cfg.BulkSize) {
			if err := ix.SaveBulk(ctx, batch); err != nil {
				slog.Error("failed to index batch", "reranker", name, "error", err)
				os.Exit(1)
			}
		}
		indexed++
	}

	if indexed == 0 {
		slog.Warn("Spec declares no elasticsearch rerankers, nothing indexed")
	}
}

func batches(docs []domain.Document, size int) [][]domain.Document {
	var out [][]domain.Document
	for start := 0; start < len(docs); start += size {
		out = append(out, docs[start:min(start+size, len(docs))])
	}
	return out
}
