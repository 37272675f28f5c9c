package rerank

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/rerank-eval/internal/embedding"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/spec"
	"github.com/DjordjeVuckovic/rerank-eval/internal/storage/pg"
	"github.com/DjordjeVuckovic/rerank-eval/pkg/utils"
)

// CreateFromSpec builds every named reranker, wrapping those that ask for it
// in a Redis-backed score cache. The returned cleanup releases pools and
// cache connections and is meant to be called once.
func CreateFromSpec(ctx context.Context, specs map[string]spec.Reranker, cache *spec.Cache) (map[string]Reranker, func(), error) {
	rerankers := make(map[string]Reranker, len(specs))
	var cleanups []func()

	cleanup := func() {
		for _, r := range rerankers {
			_ = r.Close()
		}
		for _, c := range cleanups {
			c()
		}
	}

	var store ScoreStore
	if cache != nil {
		redisStore, err := NewRedisScoreStore(ctx, cache.RedisURL, cache.TTL)
		if err != nil {
			return nil, nil, fmt.Errorf("create score cache: %w", err)
		}
		cleanups = append(cleanups, func() { _ = redisStore.Close() })
		store = redisStore
	}

	for name, rs := range specs {
		r, closeFn, err := Create(ctx, name, rs)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if closeFn != nil {
			cleanups = append(cleanups, closeFn)
		}
		if rs.Cache && store != nil {
			r = WithCache(r, store)
		}
		rerankers[name] = r
	}

	return rerankers, cleanup, nil
}

// Create builds a single reranker. The second return value, when non-nil,
// releases resources the reranker holds outside of Close.
func Create(ctx context.Context, name string, rs spec.Reranker) (Reranker, func(), error) {
	if err := spec.ValidateReranker(name, rs); err != nil {
		return nil, nil, err
	}

	switch rs.Type {
	case "random":
		return NewRandomReranker(name, rs.Seed), nil, nil

	case "api":
		return NewAPIReranker(name, rs.Connection, rs.Model), nil, nil

	case "ollama":
		client, err := embedding.NewOllamaClient(rs.Connection)
		if err != nil {
			return nil, nil, fmt.Errorf("create ollama client for %q: %w", name, err)
		}
		return NewEmbeddingReranker(name, embedding.NewEmbedder(client, embedding.WithModel(rs.Model))), nil, nil

	case "elasticsearch":
		r, err := NewElasticReranker(name, ElasticConfig{
			Addresses: utils.SplitTrimmed(rs.Connection, ","),
			Index:     rs.Index,
			Field:     rs.Field,
			IDField:   rs.IDField,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create es reranker for %q: %w", name, err)
		}
		return r, nil, nil

	case "postgres":
		pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: rs.Connection})
		if err != nil {
			return nil, nil, fmt.Errorf("create pg pool for %q: %w", name, err)
		}
		return NewPgReranker(name, pool, rs.Language), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported reranker type %q for %q", rs.Type, name)
	}
}
