// Package opendata fetches the cyber-fraud and voice-phishing statistics
// feeds published on the public data portal.
package opendata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ougirez/crimestat/internal/pkg/config"
	"github.com/ougirez/crimestat/internal/pkg/logger"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "crimestat/1.0"
	defaultMaxPages  = 10
	defaultPerPage   = 100
	returnTypeJSON   = "JSON"
)

var (
	ErrMissingServiceKey = errors.New("opendata: service key is required")
	ErrFeedNotConfigured = errors.New("opendata: feed endpoint is not configured")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("opendata: request failed (%s): %s", e.Status, e.Body)
}

// Temporary reports whether repeating the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

type Feed struct {
	BaseURL  string
	Endpoint string
	PerPage  int
}

func (f Feed) url() string {
	return strings.TrimRight(f.BaseURL, "/") + f.Endpoint
}

type Config struct {
	ServiceKey      string
	Timeout         time.Duration
	RateLimitPerSec float64
	UserAgent       string
	MaxPages        int
	Cyber           Feed
	Voice           Feed
}

func ConfigFrom(c config.OpenDataConfig) Config {
	return Config{
		ServiceKey:      c.ServiceKey,
		Timeout:         c.Timeout,
		RateLimitPerSec: c.RateLimitPerSec,
		UserAgent:       c.UserAgent,
		MaxPages:        c.MaxPages,
		Cyber:           Feed{BaseURL: c.Cyber.BaseURL, Endpoint: c.Cyber.Endpoint, PerPage: c.Cyber.PerPage},
		Voice:           Feed{BaseURL: c.Voice.BaseURL, Endpoint: c.Voice.Endpoint, PerPage: c.Voice.PerPage},
	}
}

// Batch is everything one feed call produced. Skipped counts payload
// elements that could not be turned into a row.
type Batch struct {
	Rows    []RawRow
	Skipped Tally
	Pages   int
}

type Fetcher interface {
	FetchCyberScam(ctx context.Context) (*Batch, error)
	FetchVoicePhishing(ctx context.Context) (*Batch, error)
}

type Client struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	if cfg.Cyber.PerPage <= 0 {
		cfg.Cyber.PerPage = defaultPerPage
	}
	if cfg.Voice.PerPage <= 0 {
		cfg.Voice.PerPage = defaultPerPage
	}

	limit := rate.Inf
	if cfg.RateLimitPerSec > 0 {
		limit = rate.Limit(cfg.RateLimitPerSec)
	}

	return &Client{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (c *Client) FetchCyberScam(ctx context.Context) (*Batch, error) {
	return c.fetchAll(ctx, c.config.Cyber, DecodeCyberPayload)
}

func (c *Client) FetchVoicePhishing(ctx context.Context) (*Batch, error) {
	return c.fetchAll(ctx, c.config.Voice, DecodeVoicePayload)
}

type decodeFunc func(body []byte) (*Payload, error)

// fetchAll walks pages until a short page, the advertised total count or
// the page cap. Any failed page fails the whole call.
func (c *Client) fetchAll(ctx context.Context, feed Feed, decode decodeFunc) (*Batch, error) {
	if strings.TrimSpace(c.config.ServiceKey) == "" {
		return nil, ErrMissingServiceKey
	}
	if strings.TrimSpace(feed.Endpoint) == "" || strings.TrimSpace(feed.BaseURL) == "" {
		return nil, ErrFeedNotConfigured
	}

	batch := &Batch{Skipped: Tally{}}
	for page := 1; page <= c.config.MaxPages; page++ {
		body, err := c.doRequest(ctx, feed, page)
		if err != nil {
			return nil, err
		}

		payload, err := decode(body)
		if err != nil {
			return nil, fmt.Errorf("decode page %d: %w", page, err)
		}

		batch.Pages++
		batch.Skipped.Merge(payload.Skipped)
		for _, el := range payload.Elements {
			if el.Row != nil {
				batch.Rows = append(batch.Rows, el.Row)
			}
		}

		fetched := page * feed.PerPage
		if len(payload.Elements) < feed.PerPage || (payload.TotalCount > 0 && fetched >= payload.TotalCount) {
			break
		}
		if page == c.config.MaxPages {
			logger.Warnf(ctx, "opendata: stopped at max_pages=%d, total_count=%d", page, payload.TotalCount)
		}
	}

	return batch, nil
}

func (c *Client) doRequest(ctx context.Context, feed Feed, page int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	uri, err := c.buildURL(feed, page)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{
			URL:        feed.url(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}

func (c *Client) buildURL(feed Feed, page int) (string, error) {
	base, err := url.Parse(feed.url())
	if err != nil {
		return "", fmt.Errorf("url.Parse: %w", err)
	}

	query := base.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("perPage", strconv.Itoa(feed.PerPage))
	query.Set("serviceKey", c.config.ServiceKey)
	query.Set("returnType", returnTypeJSON)
	base.RawQuery = query.Encode()

	return base.String(), nil
}
