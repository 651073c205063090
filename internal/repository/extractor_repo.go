package repository

import (
	"context"

	"github.com/mrmps/SMRY-sub004/internal/entity"
)

// ArticleExtractor turns a URL into an Article for exactly one strategy family.
// Failures are returned as *entity.AppError values.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (*entity.Article, error)
}

// ExtractionProvider is the third-party retrieval and extraction API.
type ExtractionProvider interface {
	// Fetch returns the provider's raw payload; tag names the calling strategy.
	Fetch(ctx context.Context, url string, tag entity.Source) (*entity.RawExtraction, error)
}
