// Package ticketmaster is a rate-limited client for the Ticketmaster Discovery
// API and the pure functions that normalize its payloads.
package ticketmaster

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eventscope/eventscope-server/internal/domain"
	"github.com/eventscope/eventscope-server/internal/ratelimit"
)

const (
	// DefaultBaseURL is the Discovery API v2 root.
	DefaultBaseURL = "https://app.ticketmaster.com/discovery/v2"

	// The Discovery API allows 5 requests per second per key.
	defaultRPS   = 5.0
	defaultBurst = 5

	defaultTimeout = 15 * time.Second
	userAgent      = "EventScope/1.0"
)

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client is a rate-limited Discovery API client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	baseURL string
	apiKey  string
}

// New creates a Discovery API client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// SearchEvents runs a radius search around a point.
func (c *Client) SearchEvents(ctx context.Context, params domain.EventSearch) ([]domain.Event, error) {
	query := url.Values{}
	query.Set("keyword", params.Keyword)
	query.Set("radius", strconv.Itoa(params.Distance))
	query.Set("unit", "miles")
	query.Set("latlong", formatCoord(params.Lat)+","+formatCoord(params.Lng))
	if params.Category != "" && params.Category != domain.CategoryAll {
		query.Set("classificationName", params.Category)
	}

	var resp EventsResponse
	if err := c.get(ctx, "search", "/events.json", query, &resp); err != nil {
		return nil, err
	}
	return ToEvents(&resp), nil
}

// Suggestions returns merged autocomplete names for keyword.
func (c *Client) Suggestions(ctx context.Context, keyword string) ([]string, error) {
	query := url.Values{}
	query.Set("keyword", keyword)

	var resp SuggestResponse
	if err := c.get(ctx, "suggest", "/suggest", query, &resp); err != nil {
		return nil, err
	}
	return MergeSuggestions(&resp), nil
}

// EventDetail fetches a single event. A body without an id is ErrNotFound.
func (c *Client) EventDetail(ctx context.Context, id string) (*domain.EventDetail, error) {
	var resp EventDetailResponse
	if err := c.get(ctx, "detail", "/events/"+url.PathEscape(id), url.Values{}, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, wrapError("detail", http.StatusOK, ErrNotFound)
	}
	return ToEventDetail(&resp), nil
}

// get performs a GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	if c.apiKey == "" {
		return wrapError(op, 0, ErrNotConfigured)
	}

	body, status, err := c.doRequest(ctx, path, query)
	if err != nil {
		return wrapError(op, status, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return wrapError(op, status, fmt.Errorf("parse response: %w", err))
	}
	return nil
}

// doRequest executes an HTTP request with rate limiting.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, 0, fmt.Errorf("build url: %w", err)
	}

	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	query.Set("apikey", c.apiKey)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("ticketmaster request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, resp.StatusCode, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, resp.StatusCode, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, resp.StatusCode, ErrRateLimited
	case resp.StatusCode == http.StatusBadRequest:
		return nil, resp.StatusCode, ErrBadRequest
	case resp.StatusCode >= 500:
		return nil, resp.StatusCode, ErrServer
	default:
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
