package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/mrmps/SMRY-sub004/internal/entity"
	"github.com/mrmps/SMRY-sub004/internal/paywall"
	"github.com/mrmps/SMRY-sub004/internal/repository"
	"github.com/mrmps/SMRY-sub004/pkg/logger"
	"github.com/mrmps/SMRY-sub004/pkg/metrics"
	"github.com/mrmps/SMRY-sub004/pkg/utils"
)

const (
	// servableMinLength is the length a cached article must exceed to be served
	// without a fresh fetch; shorter records are usually failed extractions.
	servableMinLength = 4000

	defaultArchiveTimeout = 10 * time.Second
)

// ArticleResolver turns a (url, source) request into the best known article.
type ArticleResolver interface {
	// Resolve runs the full pipeline and terminates rc with exactly one event.
	Resolve(ctx context.Context, rc *logger.RequestContext, rawURL, rawSource string) (*entity.ArticleResponse, error)
	// GetMeta returns the cached metadata shadow, or nil when none is stored.
	GetMeta(ctx context.Context, rawURL, rawSource string) (*entity.ArticleMetadata, error)
	// Wait blocks until in-flight background HTML archival finishes.
	Wait()
}

type articleResolverUseCase struct {
	cache          repository.ArticleCacheRepository
	router         SourceRouter
	archive        repository.PageArchiveRepository
	archiveTimeout time.Duration
	now            func() time.Time
	wg             sync.WaitGroup
}

// NewArticleResolver creates the orchestrator. archive may be nil, which
// disables page HTML archival.
func NewArticleResolver(
	cache repository.ArticleCacheRepository,
	router SourceRouter,
	archive repository.PageArchiveRepository,
	archiveTimeout time.Duration,
) ArticleResolver {
	if archiveTimeout <= 0 {
		archiveTimeout = defaultArchiveTimeout
	}
	return &articleResolverUseCase{
		cache:          cache,
		router:         router,
		archive:        archive,
		archiveTimeout: archiveTimeout,
		now:            time.Now,
	}
}

func (uc *articleResolverUseCase) Resolve(ctx context.Context, rc *logger.RequestContext, rawURL, rawSource string) (resp *entity.ArticleResponse, err error) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("Recovered panic while resolving article", "url", rawURL, "panic", p, "stack", string(debug.Stack()))
			resp, err = uc.finish(rc, rawSource, nil, entity.NewUnknownError(fmt.Errorf("panic: %v", p)))
		}
	}()

	resp, err = uc.resolve(ctx, rc, rawURL, rawSource)
	return uc.finish(rc, rawSource, resp, err)
}

// finish records the outcome and terminates rc.
func (uc *articleResolverUseCase) finish(rc *logger.RequestContext, rawSource string, resp *entity.ArticleResponse, err error) (*entity.ArticleResponse, error) {
	sourceLabel := "invalid"
	if s, perr := entity.ParseSource(rawSource); perr == nil {
		sourceLabel = string(s)
	}
	if err != nil {
		appErr := entity.AsAppError(err)
		metrics.ResolutionsTotal.WithLabelValues(sourceLabel, "failure", string(appErr.Kind)).Inc()
		rc.Error(appErr)
		return nil, appErr
	}
	metrics.ResolutionsTotal.WithLabelValues(sourceLabel, "success", "").Inc()
	rc.Success()
	return resp, nil
}

func (uc *articleResolverUseCase) resolve(ctx context.Context, rc *logger.RequestContext, rawURL, rawSource string) (*entity.ArticleResponse, error) {
	rc.Set("url", rawURL)
	rc.Set("source", rawSource)

	source, err := entity.ParseSource(rawSource)
	if err != nil {
		return nil, err
	}
	target, err := utils.NormalizeURL(rawURL)
	if err != nil {
		return nil, entity.NewValidationError("url must be an absolute http or https URL", map[string]any{"url": rawURL})
	}
	normalized := target.String()
	hostname := utils.NormalizeHostname(target.Host)
	rc.Set("hostname", hostname)

	if verdict := paywall.Classify(hostname); verdict.Blocked {
		rc.Set("paywall_site", verdict.DisplayName)
		return nil, entity.NewPaywallError(verdict.DisplayName, verdict.DetailURL)
	}

	extractor, retrievalURL, err := uc.router.Resolve(source, normalized)
	if err != nil {
		return nil, err
	}
	rc.Set("cache_url", retrievalURL)

	key := entity.CacheKey{Source: source, URL: normalized}
	if cached := uc.lookup(ctx, rc, key); cached != nil {
		return uc.respond(source, retrievalURL, cached, true, rc), nil
	}

	start := time.Now()
	article, err := extractor.Extract(ctx, retrievalURL)
	rc.Timing("fetch", time.Since(start))
	if err != nil {
		return nil, entity.AsAppError(err).WithSource(source)
	}

	uc.archiveHTML(ctx, source, normalized, article)

	start = time.Now()
	winner, err := uc.cache.Merge(ctx, key, article)
	rc.Timing("cache_save", time.Since(start))
	if err != nil {
		slog.Warn("Serving unmerged article", "key", key.String(), "error", err)
		rc.Set("merge_fallback", true)
		winner = article
	}

	return uc.respond(source, retrievalURL, winner, false, rc), nil
}

// lookup returns a cached article only when it is servable as is.
func (uc *articleResolverUseCase) lookup(ctx context.Context, rc *logger.RequestContext, key entity.CacheKey) *entity.Article {
	start := time.Now()
	cached, err := uc.cache.Get(ctx, key)
	rc.Timing("cache_lookup", time.Since(start))

	result := "miss"
	defer func() {
		rc.Set("cache_status", result)
		metrics.CacheLookupsTotal.WithLabelValues(string(key.Source), result).Inc()
	}()

	if err != nil {
		result = "error"
		slog.Warn("Cache lookup failed, fetching fresh", "key", key.String(), "error", err)
		return nil
	}
	if cached == nil {
		return nil
	}
	if !servable(cached) {
		result = "soft_miss"
		rc.Set("cached_length", cached.Length)
		return nil
	}
	result = "hit"
	return cached
}

func servable(a *entity.Article) bool {
	return entity.ValidateArticle(a) == nil && a.Length > servableMinLength && a.HasHTMLContent()
}

func (uc *articleResolverUseCase) respond(source entity.Source, cacheURL string, a *entity.Article, hit bool, rc *logger.RequestContext) *entity.ArticleResponse {
	served := *a
	if served.Dir == "" {
		served.Dir = utils.DetectDir(served.Lang, served.TextContent)
	}
	rc.Set("cache_hit", hit)
	rc.Set("article_length", served.Length)
	return &entity.ArticleResponse{
		Source:   source,
		CacheURL: cacheURL,
		Article:  &served,
		CacheHit: hit,
	}
}

// archiveHTML stores the original page markup in the background. It outlives
// the request and its failure never reaches the caller.
func (uc *articleResolverUseCase) archiveHTML(ctx context.Context, source entity.Source, url string, a *entity.Article) {
	if uc.archive == nil || !a.HasHTMLContent() {
		return
	}
	page := &repository.PageHTML{
		Source:    string(source),
		URL:       url,
		HTML:      a.HTMLContent,
		FetchedAt: uc.now().UTC(),
	}
	detached := context.WithoutCancel(ctx)

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		ctx, cancel := context.WithTimeout(detached, uc.archiveTimeout)
		defer cancel()

		if err := uc.archive.Save(ctx, page); err != nil {
			metrics.HTMLArchiveTotal.WithLabelValues("failure").Inc()
			slog.Warn("Failed to archive page HTML", "source", page.Source, "url", page.URL, "error", err)
			return
		}
		metrics.HTMLArchiveTotal.WithLabelValues("success").Inc()
	}()
}

func (uc *articleResolverUseCase) GetMeta(ctx context.Context, rawURL, rawSource string) (*entity.ArticleMetadata, error) {
	source, err := entity.ParseSource(rawSource)
	if err != nil {
		return nil, err
	}
	target, err := utils.NormalizeURL(rawURL)
	if err != nil {
		return nil, entity.NewValidationError("url must be an absolute http or https URL", map[string]any{"url": rawURL})
	}

	key := entity.CacheKey{Source: source, URL: target.String()}
	meta, err := uc.cache.GetMeta(ctx, key)
	if err != nil {
		slog.Warn("Metadata lookup failed", "key", key.MetaString(), "error", err)
		return nil, nil
	}
	return meta, nil
}

func (uc *articleResolverUseCase) Wait() {
	uc.wg.Wait()
}
