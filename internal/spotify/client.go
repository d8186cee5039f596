// Package spotify is a client-credentials Spotify Web API client used for the
// artist tab: token caching, artist search and album listing.
package spotify

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/eventscope/eventscope-server/internal/ratelimit"
)

const (
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
	DefaultAPIURL   = "https://api.spotify.com/v1"
	DefaultMarket   = "US"

	defaultRPS     = 5.0
	defaultBurst   = 10
	defaultTimeout = 15 * time.Second

	albumPageSize = 24
)

// Config configures a Client.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	APIURL       string
	Market       string
	Timeout      time.Duration
}

// Client is a rate-limited Spotify Web API client with a shared token cache.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	creds   *clientcredentials.Config
	apiURL  string
	market  string

	cache   *TokenCache
	refresh singleflight.Group
	now     func() time.Time
}

// New creates a Spotify client. Missing credentials are reported on first use.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Market == "" {
		cfg.Market = DefaultMarket
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	c := &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
		apiURL:  strings.TrimRight(cfg.APIURL, "/"),
		market:  cfg.Market,
		cache:   &TokenCache{},
		now:     time.Now,
	}
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		c.creds = &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
	}
	return c
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Configured reports whether client credentials are present.
func (c *Client) Configured() bool {
	return c.creds != nil
}

// AccessToken returns a cached token while it is valid and otherwise performs
// a client-credentials grant. Concurrent refreshes share one upstream request.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.creds == nil {
		return "", wrapError("token", 0, ErrNotConfigured)
	}
	if token, ok := c.cache.Lookup(c.now()); ok {
		return token, nil
	}

	v, err, shared := c.refresh.Do("token", func() (any, error) {
		if token, ok := c.cache.Lookup(c.now()); ok {
			return token, nil
		}
		return c.fetchToken(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.logger.Debug("spotify token refresh shared")
	}
	return v.(string), nil
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	u, err := url.Parse(c.creds.TokenURL)
	if err != nil {
		return "", wrapError("token", 0, fmt.Errorf("parse token url: %w", err))
	}
	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return "", wrapError("token", 0, fmt.Errorf("rate limit wait: %w", err))
	}

	start := c.now()
	tok, err := c.creds.Token(context.WithValue(ctx, oauth2.HTTPClient, c.http))
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			return "", wrapError("token", rerr.Response.StatusCode, statusError(rerr.Response.StatusCode))
		}
		return "", wrapError("token", 0, err)
	}

	expiresAt := cacheExpiry(start, tokenTTL(tok, start))
	c.cache.Set(tok.AccessToken, expiresAt)
	c.logger.Debug("spotify token refreshed", "expires_at", expiresAt)

	return tok.AccessToken, nil
}

// tokenTTL reads expires_in from the grant response, falling back to the
// library-computed expiry.
func tokenTTL(tok *oauth2.Token, start time.Time) time.Duration {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return time.Duration(v * float64(time.Second))
	case int64:
		return time.Duration(v) * time.Second
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	if tok.Expiry.IsZero() {
		return 0
	}
	return tok.Expiry.Sub(start)
}

// SearchArtist returns the best match for name, or nil when nothing matched.
func (c *Client) SearchArtist(ctx context.Context, name string) (*RawArtist, error) {
	query := url.Values{}
	query.Set("q", name)
	query.Set("type", "artist")
	query.Set("limit", "1")

	var resp SearchResponse
	if err := c.get(ctx, "searchArtist", "/search", query, &resp); err != nil {
		return nil, err
	}
	if resp.Artists == nil || len(resp.Artists.Items) == 0 {
		return nil, nil
	}
	return &resp.Artists.Items[0], nil
}

// ArtistAlbums lists an artist's albums in the configured market.
func (c *Client) ArtistAlbums(ctx context.Context, artistID string) ([]RawAlbum, error) {
	query := url.Values{}
	query.Set("include_groups", "album")
	query.Set("limit", strconv.Itoa(albumPageSize))
	query.Set("market", c.market)

	var resp AlbumsResponse
	if err := c.get(ctx, "artistAlbums", "/artists/"+url.PathEscape(artistID)+"/albums", query, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return err
	}

	u, err := url.Parse(c.apiURL + path)
	if err != nil {
		return wrapError(op, 0, fmt.Errorf("build url: %w", err))
	}
	u.RawQuery = query.Encode()

	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return wrapError(op, 0, fmt.Errorf("rate limit wait: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return wrapError(op, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	c.logger.Debug("spotify request", "op", op, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(op, 0, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapError(op, resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			// Revoked or rotated token; the next call fetches a new one.
			c.cache.Set("", time.Time{})
		}
		return wrapError(op, resp.StatusCode, statusError(resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return wrapError(op, resp.StatusCode, fmt.Errorf("parse response: %w", err))
	}
	return nil
}

func statusError(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status >= 500:
		return ErrServer
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}
