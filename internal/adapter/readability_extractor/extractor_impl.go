// Package readability_extractor fetches a page directly and isolates its main
// article with a readability heuristic.
package readability_extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/mrmps/SMRY-sub004/internal/entity"
	"github.com/mrmps/SMRY-sub004/pkg/metrics"
	"github.com/mrmps/SMRY-sub004/pkg/utils"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 10 << 20
	defaultUserAgent    = "Mozilla/5.0 (compatible; ArticleResolver/1.0)"
	untitled            = "Untitled"
)

// Options configures the direct extractor. Zero values take defaults.
type Options struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
	Client       *http.Client
}

// Extractor implements repository.ArticleExtractor over a plain HTTP GET.
type Extractor struct {
	client       *http.Client
	timeout      time.Duration
	maxBodyBytes int64
	userAgent    string
	live         atomic.Int64
}

// NewExtractor creates a direct fetch extractor.
func NewExtractor(opts Options) *Extractor {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Client == nil {
		opts.Client = &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &Extractor{
		client:       opts.Client,
		timeout:      opts.Timeout,
		maxBodyBytes: opts.MaxBodyBytes,
		userAgent:    opts.UserAgent,
	}
}

// Live reports how many parsed documents are currently held.
func (e *Extractor) Live() int64 {
	return e.live.Load()
}

// Extract fetches rawURL and returns the validated article.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*entity.Article, error) {
	start := time.Now()
	defer func() {
		metrics.ExtractionDuration.WithLabelValues(string(entity.SourceDirect)).Observe(time.Since(start).Seconds())
	}()

	article, err := e.extract(ctx, rawURL)
	if err != nil {
		return nil, entity.AsAppError(err).WithSource(entity.SourceDirect)
	}
	return article, nil
}

func (e *Extractor) extract(ctx context.Context, rawURL string) (*entity.Article, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Host == "" {
		return nil, entity.NewValidationError("invalid url", map[string]any{"url": rawURL})
	}
	upstream := &entity.Upstream{Hostname: pageURL.Hostname()}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	body, err := e.fetch(ctx, rawURL, upstream)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, entity.NewParseError(entity.SourceDirect, "upstream returned an empty body", nil)
	}

	doc, err := parseDocument(bytes.NewReader(body), &e.live)
	if err != nil {
		return nil, entity.NewParseError(entity.SourceDirect, "failed to parse document", err)
	}
	defer doc.Release()

	meta := readMetadata(goquery.NewDocumentFromNode(doc.root), pageURL)

	parsed, err := readability.FromDocument(doc.root, pageURL)
	if err != nil {
		return nil, entity.NewParseError(entity.SourceDirect, "readability extraction failed", err)
	}
	content := strings.TrimSpace(parsed.Content)
	text := strings.TrimSpace(parsed.TextContent)
	if content == "" || text == "" {
		return nil, entity.NewParseError(entity.SourceDirect, "no article content found", nil)
	}

	article := &entity.Article{
		Title:         firstNonEmpty(parsed.Title, meta.docTitle, untitled),
		Content:       content,
		TextContent:   text,
		Length:        entity.TextLength(text),
		SiteName:      strings.ToLower(pageURL.Hostname()),
		Byline:        firstNonEmpty(parsed.Byline, meta.author),
		PublishedTime: meta.publishedTime,
		Image:         meta.image,
		HTMLContent:   string(body),
		Lang:          firstNonEmpty(meta.lang, parsed.Language),
	}
	article.Dir = utils.DetectDir(article.Lang, article.TextContent)

	if err := entity.ValidateArticle(article); err != nil {
		return nil, entity.NewParseError(entity.SourceDirect, "extracted article failed validation", err)
	}

	slog.Debug("Extracted article", "url", rawURL, "length", article.Length, "lang", article.Lang)
	return article, nil
}

func (e *Extractor) fetch(ctx context.Context, rawURL string, upstream *entity.Upstream) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, entity.NewValidationError("invalid url", map[string]any{"url": rawURL})
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, transportError(err, upstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstream.StatusCode = resp.StatusCode
		return nil, entity.NewNetworkError(
			fmt.Sprintf("upstream responded with status %d", resp.StatusCode), upstream, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodyBytes+1))
	if err != nil {
		return nil, transportError(err, upstream)
	}
	if int64(len(body)) > e.maxBodyBytes {
		return nil, entity.NewParseError(entity.SourceDirect,
			fmt.Sprintf("response exceeds %d bytes", e.maxBodyBytes), nil)
	}
	return body, nil
}

// transportError separates an upstream that never answered in time (408)
// from other transport failures.
func transportError(err error, upstream *entity.Upstream) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		upstream.StatusCode = http.StatusRequestTimeout
		return entity.NewNetworkError("upstream request timed out", upstream, err)
	}
	if errors.Is(err, context.Canceled) {
		return entity.NewNetworkError("request canceled", upstream, err)
	}
	return entity.NewNetworkError("upstream request failed", upstream, err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
