// Package client is a Go SDK for the EventScope HTTP API, plus the client-side
// state the web UI keeps: a favorites cache with undo, debounced suggestions
// and a search session that drops stale responses.
package client

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eventscope/eventscope-server/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "eventscope-client/1.0"
)

// Client talks to an EventScope server.
type Client struct {
	http    *http.Client
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http = &http.Client{Timeout: d}
	}
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchEvents runs an event search around a point.
func (c *Client) SearchEvents(ctx context.Context, params domain.EventSearch) ([]domain.Event, error) {
	query := url.Values{}
	query.Set("keyword", params.Keyword)
	query.Set("lat", strconv.FormatFloat(params.Lat, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(params.Lng, 'f', -1, 64))
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	if params.Distance > 0 {
		query.Set("distance", strconv.Itoa(params.Distance))
	}

	var events []domain.Event
	if _, err := c.do(ctx, http.MethodGet, "/api/events/search", query, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Suggestions returns autocomplete names for keyword.
func (c *Client) Suggestions(ctx context.Context, keyword string) ([]string, error) {
	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	query := url.Values{"keyword": {keyword}}
	if _, err := c.do(ctx, http.MethodGet, "/api/events/suggestions", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// EventDetail fetches a single event.
func (c *Client) EventDetail(ctx context.Context, id string) (*domain.EventDetail, error) {
	var detail domain.EventDetail
	if _, err := c.do(ctx, http.MethodGet, "/api/events/"+url.PathEscape(id), nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// SpotifyToken returns the server's current Spotify access token.
func (c *Client) SpotifyToken(ctx context.Context) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/events/spotify/token", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// SpotifyArtist looks up an artist and their albums by name.
func (c *Client) SpotifyArtist(ctx context.Context, name string) (*domain.SpotifyArtistResponse, error) {
	var resp domain.SpotifyArtistResponse
	query := url.Values{"name": {name}}
	if _, err := c.do(ctx, http.MethodGet, "/api/events/spotify/artist", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListFavorites returns every saved favorite, oldest first.
func (c *Client) ListFavorites(ctx context.Context) ([]domain.FavoriteEvent, error) {
	var favs []domain.FavoriteEvent
	if _, err := c.do(ctx, http.MethodGet, "/api/favorites", nil, nil, &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

// AddFavorite saves a favorite. created is false when it already existed.
func (c *Client) AddFavorite(ctx context.Context, in domain.FavoriteInput) (domain.FavoriteEvent, bool, error) {
	var fav domain.FavoriteEvent
	status, err := c.do(ctx, http.MethodPost, "/api/favorites", nil, &in, &fav)
	if err != nil {
		return domain.FavoriteEvent{}, false, err
	}
	return fav, status == http.StatusCreated, nil
}

// RemoveFavorite deletes a favorite and returns what was removed, or nil.
func (c *Client) RemoveFavorite(ctx context.Context, id string) (*domain.FavoriteEvent, error) {
	var resp struct {
		Removed *domain.FavoriteEvent `json:"removed"`
	}
	if _, err := c.do(ctx, http.MethodDelete, "/api/favorites/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Removed, nil
}

// SearchFavorites runs a text search over saved favorites.
func (c *Client) SearchFavorites(ctx context.Context, q, genre string, limit int) ([]domain.FavoriteEvent, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	if genre != "" {
		query.Set("genre", genre)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var favs []domain.FavoriteEvent
	if _, err := c.do(ctx, http.MethodGet, "/api/favorites/search", query, nil, &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

// Geocode resolves a free-form address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (*domain.GeoLocation, error) {
	var loc domain.GeoLocation
	query := url.Values{"address": {address}}
	if _, err := c.do(ctx, http.MethodGet, "/api/location/geocode", query, nil, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

// Locate returns the caller's approximate location.
func (c *Client) Locate(ctx context.Context) (*domain.IPLocation, error) {
	var loc domain.IPLocation
	if _, err := c.do(ctx, http.MethodGet, "/api/location/ip", nil, nil, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

// do sends a request and decodes a 2xx body into out. Any other status
// becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, decodeAPIError(resp)
	}

	if out != nil {
		if err := json.UnmarshalRead(resp.Body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return resp.StatusCode, nil
}
