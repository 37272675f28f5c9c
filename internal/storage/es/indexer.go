package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

const maxReportedFailures = 5

// CorpusIndexer loads passages into an index so the elasticsearch reranker
// can score them by id.
type CorpusIndexer struct {
	client     *elasticsearch.TypedClient
	indexName  string
	workers    int
	flushBytes int
}

type IndexerOption func(*CorpusIndexer)

func WithWorkers(n int) IndexerOption {
	return func(ix *CorpusIndexer) {
		if n > 0 {
			ix.workers = n
		}
	}
}

func WithFlushBytes(n int) IndexerOption {
	return func(ix *CorpusIndexer) {
		if n > 0 {
			ix.flushBytes = n
		}
	}
}

func NewCorpusIndexer(ctx context.Context, config ClientConfig, opts ...IndexerOption) (*CorpusIndexer, error) {
	if config.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}

	client, err := NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	ix := &CorpusIndexer{
		client:     client,
		indexName:  config.IndexName,
		workers:    4,
		flushBytes: 5 << 20,
	}
	for _, opt := range opts {
		opt(ix)
	}

	if err := ix.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensure index %s: %w", ix.indexName, err)
	}
	return ix, nil
}

// bulkFailures collects ids rejected by the bulk indexer workers.
type bulkFailures struct {
	mu  sync.Mutex
	ids []string
}

func (f *bulkFailures) add(id string) {
	f.mu.Lock()
	f.ids = append(f.ids, id)
	f.mu.Unlock()
}

func (f *bulkFailures) err(total int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ids) == 0 {
		return nil
	}
	shown := f.ids[:min(len(f.ids), maxReportedFailures)]
	return fmt.Errorf("%d of %d documents failed to index (first: %s)", len(f.ids), total, strings.Join(shown, ", "))
}

// SaveBulk indexes docs keyed by Document.ID and refreshes the index so
// they are searchable on return.
func (e *CorpusIndexer) SaveBulk(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         e.indexName,
		Client:        e.client,
		NumWorkers:    e.workers,
		FlushBytes:    e.flushBytes,
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create bulk indexer: %w", err)
	}

	failures := &bulkFailures{}
	onFailure := func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
		failures.add(item.DocumentID)
		if err != nil {
			slog.Error("bulk index error", "id", item.DocumentID, "error", err)
			return
		}
		slog.Error("bulk index error", "id", item.DocumentID, "status", res.Status, "reason", res.Error.Reason)
	}

	for _, d := range docs {
		body, err := json.Marshal(toPassage(d))
		if err != nil {
			failures.add(d.ID)
			continue
		}
		if err := bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: d.ID,
			Body:       bytes.NewReader(body),
			OnFailure:  onFailure,
		}); err != nil {
			failures.add(d.ID)
			slog.Error("failed to queue document", "id", d.ID, "error", err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("close bulk indexer: %w", err)
	}

	stats := bi.Stats()
	slog.Info("Bulk indexing completed",
		"index", e.indexName,
		"indexed", stats.NumIndexed,
		"failed", stats.NumFailed,
		"total", len(docs))

	if err := failures.err(len(docs)); err != nil {
		return err
	}

	if _, err := e.client.Indices.Refresh().Index(e.indexName).Do(ctx); err != nil {
		return fmt.Errorf("refresh index: %w", err)
	}
	return nil
}

// EnsureIndex creates the passage index with its analyzer and mapping
// unless it already exists.
func (e *CorpusIndexer) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		slog.Debug("Index already exists", "index", e.indexName)
		return nil
	}

	settings := buildSettings()
	mappings := buildMapping()

	res, err := e.client.Indices.Create(e.indexName).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	if !res.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created", "index", e.indexName)
	return nil
}
