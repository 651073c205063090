package diffbot_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrmps/SMRY-sub004/internal/entity"
	"github.com/mrmps/SMRY-sub004/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

func newClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/v3/article", Token: "secret", Timeout: time.Second})
}

func TestFetch_MapsFirstObject(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		assert.Equal(t, "https://example.com/a", r.URL.Query().Get("url"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"objects":[{
			"title":" Headline ","html":"<p>Body</p>","text":"Body","siteName":"Example",
			"author":"Jane","estimatedDate":"2024-01-02","humanLanguage":"de",
			"images":[{"url":"https://example.com/b.png"},{"url":"https://example.com/a.png","primary":true}]
		}]}`))
	})

	raw, err := c.Fetch(context.Background(), "https://example.com/a", entity.SourceThorough)
	require.NoError(t, err)
	assert.Equal(t, "Headline", raw.Title)
	assert.Equal(t, "<p>Body</p>", raw.HTML)
	assert.Equal(t, "Example", raw.SiteName)
	assert.Equal(t, "Jane", raw.Byline)
	assert.Equal(t, "2024-01-02", raw.PublishedTime)
	assert.Equal(t, "https://example.com/a.png", raw.Image)
	assert.Equal(t, "de", raw.Lang)
}

func TestFetch_ProviderErrorPreservesCode(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errorCode":500,"error":"Could not download page (404)"}`))
	})

	_, err := c.Fetch(context.Background(), "https://example.com/a", entity.SourceArchive)
	appErr := entity.AsAppError(err)
	require.Equal(t, entity.KindNetwork, appErr.Kind)
	assert.Equal(t, entity.SourceArchive, appErr.Source)
	require.NotNil(t, appErr.Upstream)
	assert.Equal(t, "500", appErr.Upstream.ProviderCode)
	assert.Equal(t, "Could not download page (404)", appErr.Upstream.ProviderMessage)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errorCode":401,"error":"Not authorized API token."}`))
	})

	_, err := c.Fetch(context.Background(), "https://example.com/a", entity.SourceThorough)
	appErr := entity.AsAppError(err)
	require.Equal(t, entity.KindNetwork, appErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, appErr.Upstream.StatusCode)
	assert.Equal(t, "401", appErr.Upstream.ProviderCode)
}

func TestFetch_MalformedPayloadIsParseError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	_, err := c.Fetch(context.Background(), "https://example.com/a", entity.SourceThorough)
	assert.True(t, entity.IsKind(err, entity.KindParse))
}

func TestFetch_NoObjectsIsParseError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"objects":[]}`))
	})

	_, err := c.Fetch(context.Background(), "https://example.com/a", entity.SourceThorough)
	assert.True(t, entity.IsKind(err, entity.KindParse))
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})

	_, err := c.Fetch(context.Background(), "https://example.com/a", entity.SourceThorough)
	appErr := entity.AsAppError(err)
	require.Equal(t, entity.KindNetwork, appErr.Kind)
	assert.Equal(t, http.StatusRequestTimeout, appErr.Upstream.StatusCode)
}
