package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	u, err := NormalizeURL(" HTTPS://Example.COM/Path?q=1#section ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/Path?q=1", u.String())

	for _, raw := range []string{"", "example.com/a", "ftp://example.com/a", "https://", "::"} {
		_, err := NormalizeURL(raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestNormalizeHostname(t *testing.T) {
	assert.Equal(t, "ft.com", NormalizeHostname("WWW.FT.com"))
	assert.Equal(t, "ft.com", NormalizeHostname("www.ft.com:443"))
	assert.Equal(t, "markets.ft.com", NormalizeHostname("markets.ft.com."))
}

func TestToAbsoluteURL(t *testing.T) {
	base, _ := url.Parse("https://example.com/news/a")
	got, err := ToAbsoluteURL(base, "/img/lead.png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/img/lead.png", got)
}

func TestHashURL_Stable(t *testing.T) {
	assert.Equal(t, HashURL("https://example.com"), HashURL("https://example.com"))
	assert.Len(t, HashURL("https://example.com"), 64)
}

func TestDetectDir(t *testing.T) {
	tests := []struct {
		name string
		lang string
		text string
		want string
	}{
		{"arabic tag", "ar", "plain ascii", DirRTL},
		{"hebrew tag with region", "he-IL", "", DirRTL},
		{"persian tag", "fa", "", DirRTL},
		{"english", "en", "Hello world", DirLTR},
		{"arabic text without lang", "", "مرحبا بالعالم هذا نص عربي", DirRTL},
		{"hebrew text without lang", "", "שלום עולם", DirRTL},
		{"mostly latin with an arabic word", "", "The word مرحبا means hello in Arabic", DirLTR},
		{"empty", "", "", DirLTR},
		{"garbage tag falls back to content", "not a tag!!", "שלום", DirRTL},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectDir(tc.lang, tc.text))
		})
	}
}
