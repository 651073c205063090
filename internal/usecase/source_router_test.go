package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrmps/SMRY-sub004/internal/entity"
)

func TestSourceRouter_Resolve(t *testing.T) {
	direct := &stubExtractor{}
	provider := &stubProvider{}
	r := NewSourceRouter(direct, provider, "")
	const target = "https://example.com/a"

	ex, u, err := r.Resolve(entity.SourceDirect, target)
	require.NoError(t, err)
	assert.Same(t, direct, ex)
	assert.Equal(t, target, u)

	_, u, err = r.Resolve(entity.SourceThorough, target)
	require.NoError(t, err)
	assert.Equal(t, target, u)

	_, u, err = r.Resolve(entity.SourceArchive, target)
	require.NoError(t, err)
	assert.Equal(t, DefaultArchivePrefix+target, u)

	_, u, err = r.Resolve(entity.SourceArchive, DefaultArchivePrefix+target)
	require.NoError(t, err)
	assert.Equal(t, DefaultArchivePrefix+target, u, "already rewritten URLs are left alone")
}

func TestSourceRouter_ProviderStrategiesShareBackend(t *testing.T) {
	provider := &stubProvider{err: entity.NewNetworkError("down", nil, nil)}
	r := NewSourceRouter(&stubExtractor{}, provider, "https://archive.example/")

	for _, s := range []entity.Source{entity.SourceThorough, entity.SourceArchive} {
		ex, u, err := r.Resolve(s, "https://example.com/a")
		require.NoError(t, err)
		_, err = ex.Extract(context.Background(), u)
		require.Error(t, err)
		assert.Equal(t, s, entity.AsAppError(err).Source)
	}
	assert.Equal(t, []entity.Source{entity.SourceThorough, entity.SourceArchive}, provider.tags)
	assert.Equal(t, []string{"https://example.com/a", "https://archive.example/https://example.com/a"}, provider.urls)
}

func TestSourceRouter_RejectsUnknownStrategies(t *testing.T) {
	r := NewSourceRouter(&stubExtractor{}, &stubProvider{}, "")

	for _, s := range []entity.Source{entity.SourceClientReader, "smry-fast", ""} {
		ex, _, err := r.Resolve(s, "https://example.com/a")
		assert.Nil(t, ex)
		assert.True(t, entity.IsKind(err, entity.KindValidation), "source %q", s)
	}
}

func TestMapRawExtraction(t *testing.T) {
	raw := &entity.RawExtraction{
		Title:    "Titel",
		HTML:     "<p>Grüße</p>",
		Text:     " Grüße ",
		SiteName: "Beispiel",
		Lang:     "de",
	}

	a, err := mapRawExtraction(raw, entity.SourceThorough, "https://example.de/a")
	require.NoError(t, err)
	assert.Equal(t, 5, a.Length, "length counts characters of the trimmed text")
	assert.Equal(t, "ltr", a.Dir)
	assert.Equal(t, raw.HTML, a.HTMLContent)
}

func TestMapRawExtraction_SchemaFailureIsParseError(t *testing.T) {
	_, err := mapRawExtraction(&entity.RawExtraction{Title: "t", HTML: "<p>x</p>"}, entity.SourceArchive, "https://example.com/a")

	appErr := entity.AsAppError(err)
	require.Equal(t, entity.KindParse, appErr.Kind)
	assert.Equal(t, entity.SourceArchive, appErr.Source)
	require.Contains(t, appErr.Details, "fields")
	assert.Len(t, appErr.Details["fields"], 2)
}

func TestMapRawExtraction_RTLWithoutLanguage(t *testing.T) {
	a, err := mapRawExtraction(&entity.RawExtraction{
		Title:    "כותרת",
		HTML:     "<p>שלום עולם</p>",
		Text:     "שלום עולם, זהו מאמר בעברית",
		SiteName: "example.co.il",
	}, entity.SourceThorough, "https://example.co.il/a")
	require.NoError(t, err)
	assert.Equal(t, "rtl", a.Dir)
}

func TestMapRawExtraction_OptionalImageNeverFailsArticle(t *testing.T) {
	tests := []struct {
		image string
		want  string
	}{
		{"//cdn.example.com/lead.jpg", "https://cdn.example.com/lead.jpg"},
		{"/lead.jpg", "https://example.com/lead.jpg"},
		{"https://img.example.com/a.png", "https://img.example.com/a.png"},
		{"data:image/png;base64,AAAA", ""},
		{"javascript:alert(1)", ""},
		{"  ", ""},
	}
	for _, tc := range tests {
		t.Run(tc.image, func(t *testing.T) {
			a, err := mapRawExtraction(&entity.RawExtraction{
				Title:    "T",
				HTML:     "<p>body text</p>",
				Text:     "body text",
				SiteName: "Example",
				Image:    tc.image,
			}, entity.SourceThorough, "https://example.com/news/story")
			require.NoError(t, err)
			assert.Equal(t, tc.want, a.Image)
		})
	}
}
