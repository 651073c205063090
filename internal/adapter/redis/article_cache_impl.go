package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrmps/SMRY-sub004/internal/entity"
	"github.com/mrmps/SMRY-sub004/pkg/metrics"
)

// errCorruptRecord marks a resident value that cannot be decoded.
var errCorruptRecord = errors.New("corrupt cache record")

// ArticleCacheRepoImpl stores the best-known article per (source, URL) in Redis:
// the compressed article under "<source>:<url>" and its uncompressed metadata
// shadow under "meta:<source>:<url>".
//
// Merge does not lock around its read-then-write; concurrent merges for one key
// resolve as last writer wins.
type ArticleCacheRepoImpl struct {
	client *redis.Client
	codec  *articleCodec
	ttl    time.Duration
}

// NewArticleCacheRepo creates a cache store. A zero ttl stores entries without expiry.
func NewArticleCacheRepo(client *redis.Client, ttl time.Duration) (*ArticleCacheRepoImpl, error) {
	codec, err := newArticleCodec()
	if err != nil {
		return nil, err
	}
	return &ArticleCacheRepoImpl{client: client, codec: codec, ttl: ttl}, nil
}

func (r *ArticleCacheRepoImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns the resident article or nil. Undecodable records read as a miss.
func (r *ArticleCacheRepoImpl) Get(ctx context.Context, key entity.CacheKey) (*entity.Article, error) {
	article, err := r.load(ctx, key)
	if errors.Is(err, errCorruptRecord) {
		slog.Warn("Discarding undecodable cache record", "key", key.String(), "error", err)
		return nil, nil
	}
	return article, err
}

// GetMeta returns the metadata shadow or nil, without touching the full article.
func (r *ArticleCacheRepoImpl) GetMeta(ctx context.Context, key entity.CacheKey) (*entity.ArticleMetadata, error) {
	data, err := r.client.Get(ctx, key.MetaString()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata %s: %w", key.MetaString(), err)
	}

	var meta entity.ArticleMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		slog.Warn("Discarding undecodable metadata record", "key", key.MetaString(), "error", err)
		return nil, nil
	}
	if err := entity.ValidateMetadata(&meta); err != nil {
		slog.Warn("Discarding invalid metadata record", "key", key.MetaString(), "error", err)
		return nil, nil
	}
	return &meta, nil
}

// Merge persists candidate when it beats the resident record and returns the
// winner. Storage failures degrade to returning candidate unpersisted.
func (r *ArticleCacheRepoImpl) Merge(ctx context.Context, key entity.CacheKey, candidate *entity.Article) (*entity.Article, error) {
	if err := entity.ValidateArticle(candidate); err != nil {
		return nil, fmt.Errorf("merge candidate for %s: %w", key.String(), err)
	}

	resident, err := r.load(ctx, key)
	residentValid := false
	switch {
	case errors.Is(err, errCorruptRecord):
		slog.Warn("Resident cache record is corrupt, replacing", "key", key.String(), "error", err)
		resident = nil
	case err != nil:
		slog.Error("Cache read failed during merge, serving unpersisted", "key", key.String(), "error", err)
		r.countMerge(key, entity.MergeStorageFailed)
		return candidate, nil
	case resident != nil:
		residentValid = entity.ValidateArticle(resident) == nil
	}

	replace, outcome := entity.DecideMerge(resident, residentValid, candidate)
	if !replace {
		r.countMerge(key, outcome)
		return resident, nil
	}

	if err := r.store(ctx, key, candidate); err != nil {
		slog.Error("Cache write failed during merge, serving unpersisted", "key", key.String(), "error", err)
		r.countMerge(key, entity.MergeStorageFailed)
		return candidate, nil
	}

	slog.Debug("Cache record replaced", "key", key.String(), "outcome", outcome, "length", candidate.Length)
	r.countMerge(key, outcome)
	return candidate, nil
}

func (r *ArticleCacheRepoImpl) load(ctx context.Context, key entity.CacheKey) (*entity.Article, error) {
	data, err := r.client.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article %s: %w", key.String(), err)
	}
	article, err := r.codec.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptRecord, err)
	}
	return article, nil
}

// store writes the article and its metadata projection in one MULTI/EXEC so
// the pair never diverges.
func (r *ArticleCacheRepoImpl) store(ctx context.Context, key entity.CacheKey, article *entity.Article) error {
	payload, err := r.codec.encode(article)
	if err != nil {
		return err
	}
	meta, err := json.Marshal(article.Metadata())
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key.String(), payload, r.ttl)
		pipe.Set(ctx, key.MetaString(), meta, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store article %s: %w", key.String(), err)
	}
	return nil
}

func (r *ArticleCacheRepoImpl) countMerge(key entity.CacheKey, outcome entity.MergeOutcome) {
	metrics.CacheMergesTotal.WithLabelValues(string(key.Source), string(outcome)).Inc()
}
