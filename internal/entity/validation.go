package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError is a single failed constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every failed constraint of one record.
type ValidationError struct {
	Record string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Record, strings.Join(parts, "; "))
}

type validator struct {
	record string
	fields []FieldError
}

func (v *validator) fail(field, msg string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: msg})
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.fail(field, "required")
	}
}

func (v *validator) optionalURL(field, value string) {
	if value == "" {
		return
	}
	u, err := url.Parse(value)
	if err != nil || !u.IsAbs() || u.Host == "" {
		v.fail(field, "must be an absolute URL")
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Record: v.record, Fields: v.fields}
}

// ValidateArticle checks the cache-persisted article shape.
func ValidateArticle(a *Article) error {
	if a == nil {
		return &ValidationError{Record: "article", Fields: []FieldError{{Field: "article", Message: "required"}}}
	}
	v := &validator{record: "article"}
	v.required("title", a.Title)
	v.required("content", a.Content)
	v.required("textContent", a.TextContent)
	if a.Length <= 0 {
		v.fail("length", "must be positive")
	}
	v.optionalURL("image", a.Image)
	switch a.Dir {
	case "", "ltr", "rtl":
	default:
		v.fail("dir", `must be "ltr" or "rtl"`)
	}
	return v.err()
}

// ValidateMetadata checks the shadow record shape.
func ValidateMetadata(m *ArticleMetadata) error {
	if m == nil {
		return &ValidationError{Record: "metadata", Fields: []FieldError{{Field: "metadata", Message: "required"}}}
	}
	v := &validator{record: "metadata"}
	v.required("title", m.Title)
	if m.Length <= 0 {
		v.fail("length", "must be positive")
	}
	return v.err()
}

// RawExtraction is the provider payload before mapping onto Article.
type RawExtraction struct {
	Title         string
	HTML          string
	Text          string
	SiteName      string
	Byline        string
	PublishedTime string
	Image         string
	Lang          string
}

// ValidateRawExtraction checks a provider payload before it is mapped.
func ValidateRawExtraction(r *RawExtraction) error {
	if r == nil {
		return &ValidationError{Record: "extraction", Fields: []FieldError{{Field: "extraction", Message: "required"}}}
	}
	v := &validator{record: "extraction"}
	v.required("title", r.Title)
	v.required("html", r.HTML)
	v.required("text", r.Text)
	v.required("siteName", r.SiteName)
	return v.err()
}
