package response

import "github.com/mrmps/SMRY-sub004/internal/entity"

const StatusSuccess = "success"

// TypeNotFound marks a metadata lookup with nothing cached. It is not an
// entity.ErrorKind: a miss is not a resolution failure.
const TypeNotFound = "NOT_FOUND"

// ArticleResponse is the success body of GET /article.
type ArticleResponse struct {
	Source   string      `json:"source"`
	CacheURL string      `json:"cacheURL"`
	Article  ArticleBody `json:"article"`
	Status   string      `json:"status"`
}

// ArticleBody serializes absent optional fields as null.
type ArticleBody struct {
	Title         string  `json:"title"`
	Byline        *string `json:"byline"`
	Dir           string  `json:"dir"`
	Lang          string  `json:"lang"`
	Content       string  `json:"content"`
	TextContent   string  `json:"textContent"`
	Length        int     `json:"length"`
	SiteName      string  `json:"siteName"`
	PublishedTime *string `json:"publishedTime"`
	Image         *string `json:"image"`
	HTMLContent   string  `json:"htmlContent"`
}

func NewArticleResponse(r *entity.ArticleResponse) ArticleResponse {
	a := r.Article
	return ArticleResponse{
		Source:   string(r.Source),
		CacheURL: r.CacheURL,
		Article: ArticleBody{
			Title:         a.Title,
			Byline:        nullable(a.Byline),
			Dir:           a.Dir,
			Lang:          a.Lang,
			Content:       a.Content,
			TextContent:   a.TextContent,
			Length:        a.Length,
			SiteName:      a.SiteName,
			PublishedTime: nullable(a.PublishedTime),
			Image:         nullable(a.Image),
			HTMLContent:   a.HTMLContent,
		},
		Status: StatusSuccess,
	}
}

// MetadataResponse is the body of GET /article/meta.
type MetadataResponse struct {
	Title         string  `json:"title"`
	SiteName      string  `json:"siteName"`
	Length        int     `json:"length"`
	Byline        *string `json:"byline"`
	PublishedTime *string `json:"publishedTime"`
	Image         *string `json:"image"`
}

func NewMetadataResponse(m *entity.ArticleMetadata) MetadataResponse {
	return MetadataResponse{
		Title:         m.Title,
		SiteName:      m.SiteName,
		Length:        m.Length,
		Byline:        nullable(m.Byline),
		PublishedTime: nullable(m.PublishedTime),
		Image:         nullable(m.Image),
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error        string         `json:"error"`
	Type         string         `json:"type"`
	Details      map[string]any `json:"details,omitempty"`
	DebugContext *DebugContext  `json:"debugContext,omitempty"`
}

// DebugContext carries triage facts that are safe to expose.
type DebugContext struct {
	RequestID string           `json:"requestId,omitempty"`
	Source    string           `json:"source,omitempty"`
	Upstream  *entity.Upstream `json:"upstream,omitempty"`
}

func NewErrorResponse(err *entity.AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error:   err.PublicMessage(),
		Type:    string(err.Kind),
		Details: err.Details,
		DebugContext: &DebugContext{
			RequestID: requestID,
			Source:    string(err.Source),
			Upstream:  err.Upstream,
		},
	}
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
