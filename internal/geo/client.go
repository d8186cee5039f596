// Package geo resolves free-text addresses through Google Geocoding and
// approximate caller locations through IPinfo, keeping both keys server-side.
package geo

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eventscope/eventscope-server/internal/domain"
	"github.com/eventscope/eventscope-server/internal/ratelimit"
)

const (
	DefaultGeocodingURL = "https://maps.googleapis.com/maps/api/geocode/json"
	DefaultIPInfoURL    = "https://ipinfo.io/json"

	defaultRPS     = 10.0
	defaultBurst   = 10
	defaultTimeout = 15 * time.Second
)

// Config configures a Client.
type Config struct {
	GeocodingAPIKey string
	GeocodingURL    string
	IPInfoToken     string
	IPInfoURL       string
	Timeout         time.Duration
}

// Client performs rate-limited location lookups.
type Client struct {
	http         *http.Client
	limiter      *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
	geocodingURL string
	geocodingKey string
	ipinfoURL    string
	ipinfoToken  string
}

// New creates a location client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.GeocodingURL == "" {
		cfg.GeocodingURL = DefaultGeocodingURL
	}
	if cfg.IPInfoURL == "" {
		cfg.IPInfoURL = DefaultIPInfoURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		http:         &http.Client{Timeout: cfg.Timeout},
		limiter:      ratelimit.New(defaultRPS, defaultBurst),
		logger:       logger,
		geocodingURL: cfg.GeocodingURL,
		geocodingKey: cfg.GeocodingAPIKey,
		ipinfoURL:    cfg.IPInfoURL,
		ipinfoToken:  cfg.IPInfoToken,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves address to the coordinates of the first result.
func (c *Client) Geocode(ctx context.Context, address string) (*domain.GeoLocation, error) {
	if c.geocodingKey == "" {
		return nil, &Error{Op: "geocode", Provider: "google", Err: ErrNotConfigured}
	}

	query := url.Values{}
	query.Set("address", address)
	query.Set("key", c.geocodingKey)

	body, status, err := c.doRequest(ctx, c.geocodingURL, query)
	if err != nil {
		return nil, &Error{Op: "geocode", Provider: "google", Status: status, Err: err}
	}

	var resp geocodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Op: "geocode", Provider: "google", Status: status, Err: fmt.Errorf("parse response: %w", err)}
	}

	switch resp.Status {
	case "OK", "":
	case "ZERO_RESULTS":
		return nil, &Error{Op: "geocode", Provider: "google", Status: status, Err: ErrNoResults}
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return nil, &Error{Op: "geocode", Provider: "google", Status: status, Err: ErrRateLimited}
	case "REQUEST_DENIED":
		return nil, &Error{Op: "geocode", Provider: "google", Status: status, Err: fmt.Errorf("%w: %s", ErrDenied, resp.ErrorMessage)}
	default:
		return nil, &Error{Op: "geocode", Provider: "google", Status: status, Err: fmt.Errorf("%w: status %s", ErrServer, resp.Status)}
	}

	if len(resp.Results) == 0 {
		return nil, &Error{Op: "geocode", Provider: "google", Status: status, Err: ErrNoResults}
	}

	first := resp.Results[0]
	return &domain.GeoLocation{
		Lat:              first.Geometry.Location.Lat,
		Lng:              first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}

type ipinfoResponse struct {
	IP      string `json:"ip"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Loc     string `json:"loc"`
	Bogon   bool   `json:"bogon"`
}

// Locate returns the approximate location of ip. Private, loopback or
// unparsable addresses are resolved as the server's own public address.
func (c *Client) Locate(ctx context.Context, ip string) (*domain.IPLocation, error) {
	target := c.ipinfoURL
	if addr, err := netip.ParseAddr(ip); err == nil && addr.IsGlobalUnicast() && !addr.IsPrivate() {
		target = strings.TrimSuffix(c.ipinfoURL, "/json") + "/" + addr.String() + "/json"
	}

	query := url.Values{}
	if c.ipinfoToken != "" {
		query.Set("token", c.ipinfoToken)
	}

	body, status, err := c.doRequest(ctx, target, query)
	if err != nil {
		return nil, &Error{Op: "locate", Provider: "ipinfo", Status: status, Err: err}
	}

	var resp ipinfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Op: "locate", Provider: "ipinfo", Status: status, Err: fmt.Errorf("parse response: %w", err)}
	}
	if resp.Bogon {
		return nil, &Error{Op: "locate", Provider: "ipinfo", Status: status, Err: ErrNoResults}
	}

	loc := &domain.IPLocation{
		City:    resp.City,
		Region:  resp.Region,
		Country: resp.Country,
	}
	if lat, lng, ok := parseLoc(resp.Loc); ok {
		loc.Lat, loc.Lng = lat, lng
	}
	if resp.City != "" && resp.Region != "" {
		loc.Label = resp.City + ", " + resp.Region
	}
	return loc, nil
}

// parseLoc splits IPinfo's "lat,lng" field.
func parseLoc(s string) (lat, lng float64, ok bool) {
	latStr, lngStr, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

func (c *Client) doRequest(ctx context.Context, rawURL string, query url.Values) ([]byte, int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, 0, fmt.Errorf("build url: %w", err)
	}
	u.RawQuery = query.Encode()

	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("geo request", "host", u.Host, "path", u.Path)

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
		return nil, resp.StatusCode, ErrNoResults
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, resp.StatusCode, ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, resp.StatusCode, ErrDenied
	case resp.StatusCode >= 500:
		return nil, resp.StatusCode, ErrServer
	default:
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}
