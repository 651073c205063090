// Package diffbot_client calls the third-party article extraction API.
package diffbot_client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mrmps/SMRY-sub004/internal/entity"
	"github.com/mrmps/SMRY-sub004/pkg/metrics"
)

const (
	DefaultBaseURL = "https://api.diffbot.com/v3/article"
	DefaultTimeout = 45 * time.Second
	maxPayload     = 20 << 20
)

// Config configures the provider client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Client  *http.Client
}

// Client implements repository.ExtractionProvider.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	return &Client{baseURL: cfg.BaseURL, token: cfg.Token, timeout: cfg.Timeout, http: cfg.Client}
}

type apiImage struct {
	URL     string `json:"url"`
	Primary bool   `json:"primary"`
}

type apiObject struct {
	Title         string     `json:"title"`
	HTML          string     `json:"html"`
	Text          string     `json:"text"`
	SiteName      string     `json:"siteName"`
	Author        string     `json:"author"`
	Date          string     `json:"date"`
	EstimatedDate string     `json:"estimatedDate"`
	HumanLanguage string     `json:"humanLanguage"`
	Images        []apiImage `json:"images"`
}

type apiResponse struct {
	Objects   []apiObject `json:"objects"`
	ErrorCode int         `json:"errorCode"`
	Error     string      `json:"error"`
}

// Fetch asks the provider to retrieve and extract targetURL. tag names the
// strategy on whose behalf the call is made and is carried on every error.
func (c *Client) Fetch(ctx context.Context, targetURL string, tag entity.Source) (*entity.RawExtraction, error) {
	start := time.Now()
	defer func() {
		metrics.ExtractionDuration.WithLabelValues(string(tag)).Observe(time.Since(start).Seconds())
	}()

	raw, err := c.fetch(ctx, targetURL, tag)
	if err != nil {
		return nil, entity.AsAppError(err).WithSource(tag)
	}
	return raw, nil
}

func (c *Client) fetch(ctx context.Context, targetURL string, tag entity.Source) (*entity.RawExtraction, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid provider base url: %w", err)
	}
	upstream := &entity.Upstream{Hostname: endpoint.Hostname()}

	q := endpoint.Query()
	q.Set("token", c.token)
	q.Set("url", targetURL)
	endpoint.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(err, upstream)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, transportError(err, upstream)
	}

	var payload apiResponse
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstream.StatusCode = resp.StatusCode
		if decodeErr == nil {
			setProviderError(upstream, payload)
		}
		return nil, entity.NewNetworkError(
			fmt.Sprintf("extraction provider responded with status %d", resp.StatusCode), upstream, nil)
	}
	if decodeErr != nil {
		return nil, entity.NewParseError(tag, "extraction provider returned malformed JSON", decodeErr)
	}
	if payload.ErrorCode != 0 || payload.Error != "" {
		upstream.StatusCode = resp.StatusCode
		setProviderError(upstream, payload)
		return nil, entity.NewNetworkError("extraction provider reported an error", upstream, nil)
	}
	if len(payload.Objects) == 0 {
		return nil, entity.NewParseError(tag, "extraction provider returned no article", nil)
	}

	return toRawExtraction(payload.Objects[0]), nil
}

func setProviderError(upstream *entity.Upstream, payload apiResponse) {
	if payload.ErrorCode != 0 {
		upstream.ProviderCode = strconv.Itoa(payload.ErrorCode)
	}
	upstream.ProviderMessage = payload.Error
}

func toRawExtraction(o apiObject) *entity.RawExtraction {
	published := o.Date
	if published == "" {
		published = o.EstimatedDate
	}
	return &entity.RawExtraction{
		Title:         strings.TrimSpace(o.Title),
		HTML:          o.HTML,
		Text:          o.Text,
		SiteName:      strings.TrimSpace(o.SiteName),
		Byline:        strings.TrimSpace(o.Author),
		PublishedTime: published,
		Image:         leadImage(o.Images),
		Lang:          o.HumanLanguage,
	}
}

func leadImage(images []apiImage) string {
	for _, img := range images {
		if img.Primary && img.URL != "" {
			return img.URL
		}
	}
	for _, img := range images {
		if img.URL != "" {
			return img.URL
		}
	}
	return ""
}

func transportError(err error, upstream *entity.Upstream) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		upstream.StatusCode = http.StatusRequestTimeout
		return entity.NewNetworkError("extraction provider timed out", upstream, err)
	}
	return entity.NewNetworkError("extraction provider unreachable", upstream, err)
}
