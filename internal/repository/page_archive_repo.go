package repository

import (
	"context"
	"time"
)

// PageHTML is the full original markup of a resolved page.
type PageHTML struct {
	Source    string
	URL       string
	HTML      string
	FetchedAt time.Time
}

// PageArchiveRepository stores original page HTML for later metadata re-derivation.
type PageArchiveRepository interface {
	Save(ctx context.Context, page *PageHTML) error
	Ping(ctx context.Context) error
}
