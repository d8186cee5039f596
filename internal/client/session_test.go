package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventscope/eventscope-server/internal/domain"
	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
)

type stubSearchBackend struct {
	geocodeErr error
	searchErr  error
	events     []domain.Event

	geocoded []string
	searched []domain.EventSearch

	// beforeReturn runs inside SearchEvents, after the request was recorded.
	beforeReturn func()
}

func (b *stubSearchBackend) Geocode(_ context.Context, address string) (*domain.GeoLocation, error) {
	b.geocoded = append(b.geocoded, address)
	if b.geocodeErr != nil {
		return nil, b.geocodeErr
	}
	return &domain.GeoLocation{Lat: 30.2672, Lng: -97.7431}, nil
}

func (b *stubSearchBackend) SearchEvents(_ context.Context, params domain.EventSearch) ([]domain.Event, error) {
	b.searched = append(b.searched, params)
	if b.beforeReturn != nil {
		fn := b.beforeReturn
		b.beforeReturn = nil
		fn()
	}
	if b.searchErr != nil {
		return nil, b.searchErr
	}
	return b.events, nil
}

func ptr(f float64) *float64 { return &f }

func TestSearchSession_GeocodesThenSearches(t *testing.T) {
	backend := &stubSearchBackend{events: []domain.Event{
		{ID: "late", Date: "2026-05-02", Time: "20:00:00"},
		{ID: "", Date: "2026-04-01"},
		{ID: "early-no-time", Date: "2026-05-01"},
		{ID: "early", Date: "2026-05-01", Time: "19:30:00"},
	}}
	session := NewSearchSession(backend)

	events, err := session.Search(context.Background(), SearchRequest{Keyword: " jazz ", Location: " Austin, TX "})
	require.NoError(t, err)

	assert.Equal(t, []string{"Austin, TX"}, backend.geocoded)
	require.Len(t, backend.searched, 1)
	assert.Equal(t, domain.EventSearch{
		Keyword:  "jazz",
		Category: domain.CategoryAll,
		Lat:      30.2672,
		Lng:      -97.7431,
		Distance: domain.DefaultDistanceMiles,
	}, backend.searched[0])

	var ids []string
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"early-no-time", "early", "late"}, ids)
	assert.Equal(t, events, session.Results())
}

func TestSearchSession_ExplicitCoordinatesSkipGeocode(t *testing.T) {
	backend := &stubSearchBackend{}
	session := NewSearchSession(backend)

	_, err := session.Search(context.Background(), SearchRequest{
		Keyword: "jazz", Category: "Music", Distance: 50, Lat: ptr(40.7), Lng: ptr(-74),
	})
	require.NoError(t, err)
	assert.Empty(t, backend.geocoded)
	assert.Equal(t, "Music", backend.searched[0].Category)
	assert.Equal(t, 50, backend.searched[0].Distance)
}

func TestSearchSession_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   SearchRequest
		field string
	}{
		{"blank keyword", SearchRequest{Keyword: "  ", Location: "Austin"}, "keyword"},
		{"no location", SearchRequest{Keyword: "jazz"}, "location"},
		{"only lat", SearchRequest{Keyword: "jazz", Lat: ptr(1)}, "location"},
		{"negative distance", SearchRequest{Keyword: "jazz", Location: "Austin", Distance: -1}, "distance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &stubSearchBackend{}
			_, err := NewSearchSession(backend).Search(context.Background(), tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.field)
			assert.Empty(t, backend.searched)
		})
	}
}

func TestSearchSession_LocationNotFound(t *testing.T) {
	backend := &stubSearchBackend{geocodeErr: &APIError{Status: http.StatusNotFound, Code: domainerrors.CodeNotFound}}
	_, err := NewSearchSession(backend).Search(context.Background(), SearchRequest{Keyword: "jazz", Location: "Atlantis"})
	assert.ErrorIs(t, err, ErrLocationNotFound)
	assert.Empty(t, backend.searched)
}

func TestSearchSession_SearchErrorPassesThrough(t *testing.T) {
	boom := errors.New("upstream down")
	backend := &stubSearchBackend{searchErr: boom}
	_, err := NewSearchSession(backend).Search(context.Background(), SearchRequest{Keyword: "jazz", Lat: ptr(1), Lng: ptr(2)})
	assert.ErrorIs(t, err, boom)
}

func TestSearchSession_StaleSearchDiscarded(t *testing.T) {
	backend := &stubSearchBackend{events: []domain.Event{{ID: "first"}}}
	session := NewSearchSession(backend)
	ctx := context.Background()

	var newer []domain.Event
	backend.beforeReturn = func() {
		// A second search starts and finishes while the first is in flight.
		backend.events = []domain.Event{{ID: "second"}}
		var err error
		newer, err = session.Search(ctx, SearchRequest{Keyword: "b", Lat: ptr(1), Lng: ptr(2)})
		require.NoError(t, err)
		backend.events = []domain.Event{{ID: "first"}}
	}

	_, err := session.Search(ctx, SearchRequest{Keyword: "a", Lat: ptr(1), Lng: ptr(2)})
	assert.ErrorIs(t, err, ErrStale)

	require.Len(t, newer, 1)
	assert.Equal(t, "second", newer[0].ID)
	assert.Equal(t, newer, session.Results())
}

func TestSortEvents_CapsResults(t *testing.T) {
	events := make([]domain.Event, 0, 30)
	for i := 30; i > 0; i-- {
		events = append(events, domain.Event{ID: fmt.Sprintf("e%02d", i), Date: fmt.Sprintf("2026-06-%02d", i)})
	}

	sorted := SortEvents(events)
	require.Len(t, sorted, MaxSearchResults)
	assert.Equal(t, "e01", sorted[0].ID)
	assert.Equal(t, "e20", sorted[MaxSearchResults-1].ID)
}
