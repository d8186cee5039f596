package client

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/eventscope/eventscope-server/internal/domain"
	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
)

// MaxSearchResults caps how many events a search session shows.
const MaxSearchResults = 20

var (
	// ErrStale is returned when a newer search was started before this one finished.
	ErrStale = errors.New("client: search superseded by a newer one")

	// ErrLocationNotFound is returned when the location text cannot be geocoded.
	ErrLocationNotFound = errors.New("client: unable to find the specified location")
)

// SearchBackend is what a SearchSession needs from the server. *Client implements it.
type SearchBackend interface {
	Geocode(ctx context.Context, address string) (*domain.GeoLocation, error)
	SearchEvents(ctx context.Context, params domain.EventSearch) ([]domain.Event, error)
}

// SearchRequest is the search form. Either Location or both Lat and Lng must be set.
type SearchRequest struct {
	Keyword  string
	Category string
	Distance int
	Location string
	Lat      *float64
	Lng      *float64
}

// SearchSession runs searches for one search form. Only the most recent
// search updates Results.
type SearchSession struct {
	backend SearchBackend
	seq     Sequencer

	mu      sync.Mutex
	results []domain.Event
}

// NewSearchSession creates a SearchSession.
func NewSearchSession(backend SearchBackend) *SearchSession {
	return &SearchSession{backend: backend}
}

// Results returns the events of the last applied search.
func (s *SearchSession) Results() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results)
}

// Search validates req, geocodes the location when no coordinates are given,
// then runs the search. Results are the events with an id, soonest first,
// at most MaxSearchResults.
func (s *SearchSession) Search(ctx context.Context, req SearchRequest) ([]domain.Event, error) {
	if err := validateSearch(req); err != nil {
		return nil, err
	}

	ticket := s.seq.Next()
	s.mu.Lock()
	s.results = nil
	s.mu.Unlock()

	lat, lng, err := s.resolve(ctx, req)
	if err != nil {
		return nil, s.staleOr(ticket, err)
	}

	distance := req.Distance
	if distance == 0 {
		distance = domain.DefaultDistanceMiles
	}
	category := req.Category
	if category == "" {
		category = domain.CategoryAll
	}

	events, err := s.backend.SearchEvents(ctx, domain.EventSearch{
		Keyword:  strings.TrimSpace(req.Keyword),
		Category: category,
		Lat:      lat,
		Lng:      lng,
		Distance: distance,
	})
	if err != nil {
		return nil, s.staleOr(ticket, err)
	}

	sorted := SortEvents(events)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seq.IsLatest(ticket) {
		return nil, ErrStale
	}
	s.results = sorted
	return slices.Clone(sorted), nil
}

func (s *SearchSession) resolve(ctx context.Context, req SearchRequest) (lat, lng float64, err error) {
	if req.Lat != nil && req.Lng != nil {
		return *req.Lat, *req.Lng, nil
	}

	loc, err := s.backend.Geocode(ctx, strings.TrimSpace(req.Location))
	if err != nil {
		if IsNotFound(err) {
			return 0, 0, ErrLocationNotFound
		}
		return 0, 0, err
	}
	return loc.Lat, loc.Lng, nil
}

func (s *SearchSession) staleOr(ticket uint64, err error) error {
	if !s.seq.IsLatest(ticket) {
		return ErrStale
	}
	return err
}

func validateSearch(req SearchRequest) error {
	details := make(map[string]string)
	if strings.TrimSpace(req.Keyword) == "" {
		details["keyword"] = "is required"
	}
	if (req.Lat == nil || req.Lng == nil) && strings.TrimSpace(req.Location) == "" {
		details["location"] = "is required"
	}
	if req.Distance < 0 {
		details["distance"] = "must be greater than 0"
	}
	if len(details) > 0 {
		return domainerrors.ValidationWithDetails("invalid search", details)
	}
	return nil
}

// SortEvents drops events without an id, orders the rest by date then time
// (a missing time counts as midnight) and keeps the first MaxSearchResults.
func SortEvents(events []domain.Event) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.ID != "" {
			out = append(out, e)
		}
	}

	slices.SortStableFunc(out, func(a, b domain.Event) int {
		return cmp.Compare(sortKey(a), sortKey(b))
	})

	if len(out) > MaxSearchResults {
		out = out[:MaxSearchResults]
	}
	return out
}

func sortKey(e domain.Event) string {
	t := e.Time
	if t == "" {
		t = "00:00:00"
	}
	return e.Date + "T" + t
}
