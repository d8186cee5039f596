package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventscope/eventscope-server/internal/domain"
	"github.com/eventscope/eventscope-server/internal/logger"
	"github.com/eventscope/eventscope-server/internal/search"
	"github.com/eventscope/eventscope-server/internal/service"
	"github.com/eventscope/eventscope-server/internal/spotify"
	"github.com/eventscope/eventscope-server/internal/store"
	"github.com/eventscope/eventscope-server/internal/ticketmaster"
)

type fakeEvents struct {
	last   domain.EventSearch
	events []domain.Event
	err    error
}

func (f *fakeEvents) SearchEvents(_ context.Context, params domain.EventSearch) ([]domain.Event, error) {
	f.last = params
	return f.events, f.err
}

func (f *fakeEvents) Suggestions(context.Context, string) ([]string, error) {
	return []string{"Taylor Swift", "Taylor Swift | The Eras Tour"}, f.err
}

func (f *fakeEvents) EventDetail(_ context.Context, id string) (*domain.EventDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.EventDetail{ID: id, Name: "Show", Genres: []string{"Music"}}, nil
}

type fakeSpotify struct {
	artist *spotify.RawArtist
	err    error
}

func (f *fakeSpotify) AccessToken(context.Context) (string, error) {
	return "BQ-token", f.err
}

func (f *fakeSpotify) SearchArtist(context.Context, string) (*spotify.RawArtist, error) {
	return f.artist, f.err
}

func (f *fakeSpotify) ArtistAlbums(context.Context, string) ([]spotify.RawAlbum, error) {
	return []spotify.RawAlbum{{ID: "a1", Name: "Currents"}}, nil
}

type fakeGeo struct {
	lastIP string
}

func (f *fakeGeo) Geocode(_ context.Context, address string) (*domain.GeoLocation, error) {
	return &domain.GeoLocation{Lat: 34.05, Lng: -118.24, FormattedAddress: address}, nil
}

func (f *fakeGeo) Locate(_ context.Context, ip string) (*domain.IPLocation, error) {
	f.lastIP = ip
	return &domain.IPLocation{City: "Los Angeles", Region: "California", Label: "Los Angeles, California"}, nil
}

// testServer wraps the API server with its fakes.
type testServer struct {
	*Server
	api     humatest.TestAPI
	events  *fakeEvents
	spotify *fakeSpotify
	geo     *fakeGeo
}

func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	log := logger.Discard()

	st, err := store.NewInMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.New(search.Options{Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	events := &fakeEvents{}
	sp := &fakeSpotify{artist: &spotify.RawArtist{ID: "art1", Name: "Tame Impala"}}
	geo := &fakeGeo{}

	services := &Services{
		Events:    service.NewEventService(events, log),
		Artists:   service.NewArtistService(sp, log),
		Favorites: service.NewFavoriteService(st, index, log),
		Locations: service.NewLocationService(geo, log),
	}

	opts.Store = st
	opts.Index = index
	s := NewServer(services, opts, log)
	t.Cleanup(s.Close)

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.API()),
		events:  events,
		spotify: sp,
		geo:     geo,
	}
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestSearchEvents(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.events.events = []domain.Event{{ID: "e1", Name: "Jazz Night"}}

	resp := ts.api.Get("/api/events/search?keyword=jazz&lat=34.05&lng=-118.24")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	events := decode[[]domain.Event](t, resp.Body.Bytes())
	assert.Equal(t, "Jazz Night", events[0].Name)
	assert.Equal(t, domain.CategoryAll, ts.events.last.Category)
	assert.Equal(t, 10, ts.events.last.Distance)
}

func TestSearchEvents_EmptyIsArray(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/events/search?keyword=zzz&lat=1&lng=1&category=Sports&distance=25")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())
	assert.Equal(t, "Sports", ts.events.last.Category)
	assert.Equal(t, 25, ts.events.last.Distance)
}

func TestSearchEvents_LargeDistance(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/events/search?keyword=jazz&lat=1&lng=1&distance=1000")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, 1000, ts.events.last.Distance)
}

func TestSearchEvents_BadRequest(t *testing.T) {
	ts := setupTestServer(t, Options{})

	for _, path := range []string{
		"/api/events/search?lat=1&lng=1",
		"/api/events/search?keyword=jazz&lng=1",
		"/api/events/search?keyword=jazz&lat=abc&lng=1",
		"/api/events/search?keyword=jazz&lat=95&lng=1",
	} {
		resp := ts.api.Get(path)
		assert.Equal(t, http.StatusBadRequest, resp.Code, path)

		apiErr := decode[map[string]any](t, resp.Body.Bytes())
		assert.Equal(t, "VALIDATION", apiErr["code"], path)
	}
}

func TestSearchEvents_ErrorsAreServerSide(t *testing.T) {
	ts := setupTestServer(t, Options{})

	ts.events.err = &ticketmaster.Error{Op: "search", Err: ticketmaster.ErrNotConfigured}
	resp := ts.api.Get("/api/events/search?keyword=jazz&lat=1&lng=1")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), `"CONFIGURATION"`)

	ts.events.err = &ticketmaster.Error{Op: "search", Status: 503, Err: ticketmaster.ErrServer}
	resp = ts.api.Get("/api/events/search?keyword=jazz&lat=1&lng=1")
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "status 503")
	assert.NotContains(t, resp.Body.String(), "server error")
}

func TestSuggestions(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/events/suggestions?keyword=tay")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[SuggestionsResponse](t, resp.Body.Bytes())
	assert.Equal(t, []string{"Taylor Swift", "Taylor Swift | The Eras Tour"}, body.Suggestions)

	resp = ts.api.Get("/api/events/suggestions")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetEvent(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/events/G5vYZ9")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "G5vYZ9", decode[domain.EventDetail](t, resp.Body.Bytes()).ID)

	ts.events.err = &ticketmaster.Error{Op: "detail", Status: 404, Err: ticketmaster.ErrNotFound}
	resp = ts.api.Get("/api/events/missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), `"NOT_FOUND"`)
}

func TestSpotifyRoutes(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/events/spotify/token")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"access_token":"BQ-token"}`, resp.Body.String())

	resp = ts.api.Get("/api/events/spotify/artist?name=tame")
	require.Equal(t, http.StatusOK, resp.Code)
	artist := decode[domain.SpotifyArtistResponse](t, resp.Body.Bytes())
	require.NotNil(t, artist.Artist)
	assert.Equal(t, "art1", artist.Artist.ID)
	assert.Len(t, artist.Albums, 1)

	resp = ts.api.Get("/api/events/spotify/artist?name=%20")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	ts.spotify.artist = nil
	resp = ts.api.Get("/api/events/spotify/artist?name=nobody")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestFavorites_Lifecycle(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/favorites")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())

	resp = ts.api.Post("/api/favorites", map[string]any{"id": "e1", "name": "Hamilton", "genre": "Arts & Theatre"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	first := decode[domain.FavoriteEvent](t, resp.Body.Bytes())
	assert.NotEmpty(t, first.CreatedAt)

	resp = ts.api.Post("/api/favorites", map[string]any{"id": "e1", "name": "Hamilton (Matinee)", "createdAt": "ignored"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	second := decode[domain.FavoriteEvent](t, resp.Body.Bytes())
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "Hamilton (Matinee)", second.Name)

	resp = ts.api.Get("/api/favorites/search?q=matinee")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]domain.FavoriteEvent](t, resp.Body.Bytes()), 1)

	resp = ts.api.Delete("/api/favorites/e1")
	require.Equal(t, http.StatusOK, resp.Code)
	removed := decode[RemoveFavoriteResponse](t, resp.Body.Bytes())
	require.NotNil(t, removed.Removed)
	assert.Equal(t, "e1", removed.Removed.ID)

	resp = ts.api.Delete("/api/favorites/e1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"removed":null}`, resp.Body.String())
}

func TestResponses_HaveNoSchemaLink(t *testing.T) {
	ts := setupTestServer(t, Options{})

	responses := map[string]string{}
	responses["suggestions"] = ts.api.Get("/api/events/suggestions?keyword=tay").Body.String()
	responses["detail"] = ts.api.Get("/api/events/G5vYZ9").Body.String()
	responses["token"] = ts.api.Get("/api/events/spotify/token").Body.String()
	responses["add"] = ts.api.Post("/api/favorites", map[string]any{"id": "e1", "name": "Hamilton"}).Body.String()
	responses["remove"] = ts.api.Delete("/api/favorites/e1").Body.String()

	for name, body := range responses {
		assert.NotContains(t, body, "$schema", name)
	}

	resp := ts.api.Get("/api/events/suggestions?keyword=tay")
	assert.Empty(t, resp.Header().Get("Link"))
}

func TestFavorites_InvalidBody(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/favorites", map[string]any{"id": "  ", "name": "Show"})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	apiErr := decode[APIError](t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", apiErr.Code)
	assert.Equal(t, map[string]any{"id": "is required"}, apiErr.Details)
}

func TestLocationRoutes(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/location/geocode?address=Los%20Angeles")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Los Angeles", decode[domain.GeoLocation](t, resp.Body.Bytes()).FormattedAddress)

	resp = ts.api.Get("/api/location/ip", "X-Forwarded-For: 203.0.113.7")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "203.0.113.7", ts.geo.lastIP)
	assert.Equal(t, "Los Angeles, California", decode[domain.IPLocation](t, resp.Body.Bytes()).Label)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decode[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "badger", health.Components["store"].Message)
	assert.Equal(t, "0 documents", health.Components["search"].Message)
}

func TestRateLimit(t *testing.T) {
	ts := setupTestServer(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 2})

	for range 2 {
		resp := ts.api.Get("/health")
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Contains(t, resp.Body.String(), `"RATE_LIMITED"`)

	// A different client has its own bucket.
	resp = ts.api.Get("/health", "X-Real-IP: 198.51.100.1")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestCORS(t *testing.T) {
	ts := setupTestServer(t, Options{CORSOrigins: []string{"https://eventscope.app"}})

	resp := ts.api.Get("/health", "Origin: https://eventscope.app")
	assert.Equal(t, "https://eventscope.app", resp.Header().Get("Access-Control-Allow-Origin"))

	resp = ts.api.Get("/health", "Origin: https://evil.example")
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}
