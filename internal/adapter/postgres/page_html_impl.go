package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mrmps/SMRY-sub004/internal/repository"
	"github.com/mrmps/SMRY-sub004/pkg/utils"
)

// DB is the subset of *pgxpool.Pool the archive needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// PageHTMLRepoImpl archives original page markup in PostgreSQL.
type PageHTMLRepoImpl struct {
	db DB
}

// NewPageHTMLRepo creates a new instance of PageHTMLRepoImpl.
func NewPageHTMLRepo(db DB) *PageHTMLRepoImpl {
	return &PageHTMLRepoImpl{db: db}
}

const schema = `
	CREATE TABLE IF NOT EXISTS page_html (
		source     TEXT        NOT NULL,
		url        TEXT        NOT NULL,
		url_hash   CHAR(64)    NOT NULL,
		html       TEXT        NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (source, url)
	);
	CREATE INDEX IF NOT EXISTS page_html_url_hash_idx ON page_html (url_hash);
`

// EnsureSchema creates the archive table when it does not exist.
func (r *PageHTMLRepoImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create page_html schema: %w", err)
	}
	return nil
}

// Save stores or replaces the markup for a (source, url) pair.
func (r *PageHTMLRepoImpl) Save(ctx context.Context, page *repository.PageHTML) error {
	if page == nil || page.HTML == "" {
		return errors.New("page html is empty")
	}

	query := `
		INSERT INTO page_html (source, url, url_hash, html, fetched_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (source, url) DO UPDATE SET
			html = EXCLUDED.html,
			fetched_at = EXCLUDED.fetched_at;
	`

	_, err := r.db.Exec(ctx, query,
		page.Source,
		page.URL,
		utils.HashURL(page.URL),
		page.HTML,
		page.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save page html for %s: %w", page.URL, err)
	}
	return nil
}

func (r *PageHTMLRepoImpl) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
