package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validArticle() *Article {
	text := strings.Repeat("a", 120)
	return &Article{
		Title:       "Title",
		Content:     "<p>" + text + "</p>",
		TextContent: text,
		Length:      TextLength(text),
		SiteName:    "example.com",
	}
}

func TestValidateArticle(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateArticle(validArticle()))

	tests := []struct {
		name   string
		mutate func(a *Article)
		field  string
	}{
		{"empty title", func(a *Article) { a.Title = "  " }, "title"},
		{"empty content", func(a *Article) { a.Content = "" }, "content"},
		{"empty text", func(a *Article) { a.TextContent = "" }, "textContent"},
		{"zero length", func(a *Article) { a.Length = 0 }, "length"},
		{"relative image", func(a *Article) { a.Image = "/img.png" }, "image"},
		{"bad dir", func(a *Article) { a.Dir = "ttb" }, "dir"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := validArticle()
			tc.mutate(a)

			err := ValidateArticle(a)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			require.Len(t, vErr.Fields, 1)
			assert.Equal(t, tc.field, vErr.Fields[0].Field)
		})
	}
}

func TestValidateArticle_Nil(t *testing.T) {
	assert.Error(t, ValidateArticle(nil))
}

func TestValidateRawExtraction_ReportsEveryMissingField(t *testing.T) {
	err := ValidateRawExtraction(&RawExtraction{Title: "t"})

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	fields := make([]string, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"html", "text", "siteName"}, fields)
	assert.Contains(t, err.Error(), "invalid extraction")
}

func TestParseSource(t *testing.T) {
	for _, s := range Sources {
		got, err := ParseSource(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseSource("jina.ai")
	require.True(t, IsKind(err, KindValidation))
	assert.Contains(t, err.Error(), "/api/jina")

	_, err = ParseSource("smry-turbo")
	assert.True(t, IsKind(err, KindValidation))

	_, err = ParseSource("")
	assert.True(t, IsKind(err, KindValidation))
}

func TestCacheKey(t *testing.T) {
	k := CacheKey{Source: SourceDirect, URL: "https://example.com/a"}
	assert.Equal(t, "direct-fast:https://example.com/a", k.String())
	assert.Equal(t, "meta:direct-fast:https://example.com/a", k.MetaString())
}

func TestAppError_StatusMapping(t *testing.T) {
	assert.Equal(t, 400, NewValidationError("bad", nil).HTTPStatus())
	assert.Equal(t, 403, NewPaywallError("FT", "/x").HTTPStatus())
	assert.Equal(t, 500, NewNetworkError("down", nil, nil).HTTPStatus())
	assert.Equal(t, 500, NewParseError(SourceDirect, "empty", nil).HTTPStatus())

	unknown := AsAppError(errors.New("boom"))
	assert.Equal(t, KindUnknown, unknown.Kind)
	assert.NotContains(t, unknown.PublicMessage(), "boom")
}

func TestArticleMetadata_IsProjection(t *testing.T) {
	a := validArticle()
	a.Byline = "Jane"
	a.Image = "https://example.com/i.png"

	m := a.Metadata()
	assert.Equal(t, a.Title, m.Title)
	assert.Equal(t, a.Length, m.Length)
	assert.Equal(t, a.Byline, m.Byline)
	assert.Equal(t, a.Image, m.Image)
	require.NoError(t, ValidateMetadata(&m))
}
