package usecase

import (
	"context"
	"errors"
	neturl "net/url"
	"strings"

	"github.com/mrmps/SMRY-sub004/internal/entity"
	"github.com/mrmps/SMRY-sub004/internal/repository"
	"github.com/mrmps/SMRY-sub004/pkg/utils"
)

// providerExtractor adapts the extraction provider to repository.ArticleExtractor
// for one strategy tag, validating and mapping the raw payload.
type providerExtractor struct {
	provider repository.ExtractionProvider
	tag      entity.Source
}

func newProviderExtractor(p repository.ExtractionProvider, tag entity.Source) repository.ArticleExtractor {
	return &providerExtractor{provider: p, tag: tag}
}

func (e *providerExtractor) Extract(ctx context.Context, url string) (*entity.Article, error) {
	raw, err := e.provider.Fetch(ctx, url, e.tag)
	if err != nil {
		return nil, entity.AsAppError(err).WithSource(e.tag)
	}
	return mapRawExtraction(raw, e.tag, url)
}

// mapRawExtraction converts a provider payload into an Article. The length is
// recomputed from the text rather than trusted from upstream, and the image is
// resolved against pageURL or dropped.
func mapRawExtraction(raw *entity.RawExtraction, tag entity.Source, pageURL string) (*entity.Article, error) {
	if err := entity.ValidateRawExtraction(raw); err != nil {
		return nil, schemaError(tag, "extraction provider payload failed validation", err)
	}

	text := strings.TrimSpace(raw.Text)
	article := &entity.Article{
		Title:         raw.Title,
		Content:       raw.HTML,
		TextContent:   text,
		Length:        entity.TextLength(text),
		SiteName:      raw.SiteName,
		Byline:        raw.Byline,
		PublishedTime: raw.PublishedTime,
		Image:         resolveImage(pageURL, raw.Image),
		HTMLContent:   raw.HTML,
		Lang:          strings.TrimSpace(raw.Lang),
	}
	article.Dir = utils.DetectDir(article.Lang, article.TextContent)

	if err := entity.ValidateArticle(article); err != nil {
		return nil, schemaError(tag, "mapped article failed validation", err)
	}
	return article, nil
}

// resolveImage makes an optional image reference absolute, returning "" when
// that is not possible.
func resolveImage(pageURL, image string) string {
	image = strings.TrimSpace(image)
	if image == "" {
		return ""
	}
	base, err := neturl.Parse(pageURL)
	if err != nil {
		return ""
	}
	abs, err := utils.ToAbsoluteURL(base, image)
	if err != nil {
		return ""
	}
	u, err := neturl.Parse(abs)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return abs
}

func schemaError(tag entity.Source, msg string, err error) *entity.AppError {
	appErr := entity.NewParseError(tag, msg, err)
	var vErr *entity.ValidationError
	if errors.As(err, &vErr) {
		appErr.Details = map[string]any{"fields": vErr.Fields}
	}
	return appErr
}
