package entity

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Source identifies a retrieval-and-extraction strategy.
type Source string

const (
	SourceDirect   Source = "direct-fast"
	SourceThorough Source = "thorough-extraction"
	SourceArchive  Source = "archive-snapshot"

	// SourceClientReader is only served by the client-side reader endpoint.
	SourceClientReader Source = "jina.ai"
)

// Sources lists the strategies this service resolves, in a stable order.
var Sources = []Source{SourceDirect, SourceThorough, SourceArchive}

// ParseSource validates a raw strategy value against the closed set.
func ParseSource(raw string) (Source, error) {
	s := Source(strings.TrimSpace(raw))
	switch s {
	case SourceDirect, SourceThorough, SourceArchive:
		return s, nil
	case SourceClientReader:
		return "", NewValidationError(
			fmt.Sprintf("source %q is resolved client-side; use the /api/jina endpoint instead", s),
			map[string]any{"source": string(s)},
		)
	case "":
		return "", NewValidationError("source query parameter is required", nil)
	default:
		return "", NewValidationError(
			fmt.Sprintf("unsupported source %q", s),
			map[string]any{"source": string(s), "allowed": Sources},
		)
	}
}

// CacheKey addresses the best-known article for a URL under one strategy.
type CacheKey struct {
	Source Source
	URL    string
}

func (k CacheKey) String() string {
	return string(k.Source) + ":" + k.URL
}

// MetaString is the key of the lightweight metadata shadow record.
func (k CacheKey) MetaString() string {
	return "meta:" + k.String()
}

// Article is the cached unit. Optional fields use the empty string for absence.
type Article struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	TextContent   string `json:"textContent"`
	Length        int    `json:"length"`
	SiteName      string `json:"siteName"`
	Byline        string `json:"byline,omitempty"`
	PublishedTime string `json:"publishedTime,omitempty"`
	Image         string `json:"image,omitempty"`
	HTMLContent   string `json:"htmlContent,omitempty"`
	Lang          string `json:"lang,omitempty"`
	Dir           string `json:"dir,omitempty"`
}

// TextLength is the character count used as the article's ranking signal.
func TextLength(text string) int {
	return utf8.RuneCountInString(text)
}

// HasHTMLContent reports whether the full original markup is present.
func (a *Article) HasHTMLContent() bool {
	return strings.TrimSpace(a.HTMLContent) != ""
}

// Metadata projects the lightweight shadow record from the article.
func (a *Article) Metadata() ArticleMetadata {
	return ArticleMetadata{
		Title:         a.Title,
		SiteName:      a.SiteName,
		Length:        a.Length,
		Byline:        a.Byline,
		PublishedTime: a.PublishedTime,
		Image:         a.Image,
	}
}

// ArticleMetadata is the small shadow of an Article stored beside it.
type ArticleMetadata struct {
	Title         string `json:"title"`
	SiteName      string `json:"siteName"`
	Length        int    `json:"length"`
	Byline        string `json:"byline,omitempty"`
	PublishedTime string `json:"publishedTime,omitempty"`
	Image         string `json:"image,omitempty"`
}

// ArticleResponse is the uniform result of a successful resolution.
type ArticleResponse struct {
	Source   Source
	CacheURL string
	Article  *Article
	CacheHit bool
}
