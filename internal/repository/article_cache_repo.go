package repository

import (
	"context"

	"github.com/mrmps/SMRY-sub004/internal/entity"
)

// ArticleCacheRepository is the only gateway to cached articles.
type ArticleCacheRepository interface {
	// Get returns the resident article, or nil on a miss.
	Get(ctx context.Context, key entity.CacheKey) (*entity.Article, error)
	// GetMeta returns the resident metadata shadow, or nil on a miss.
	GetMeta(ctx context.Context, key entity.CacheKey) (*entity.ArticleMetadata, error)
	// Merge reconciles candidate with the resident record and returns the winner.
	// Storage failures are absorbed; an error means candidate itself is invalid.
	Merge(ctx context.Context, key entity.CacheKey, candidate *entity.Article) (*entity.Article, error)
	// Ping checks the backing store.
	Ping(ctx context.Context) error
}
