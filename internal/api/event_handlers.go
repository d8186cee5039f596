package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/eventscope/eventscope-server/internal/domain"
)

func (s *Server) registerEventRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchEvents",
		Method:      http.MethodGet,
		Path:        "/api/events/search",
		Summary:     "Search events",
		Description: "Searches Ticketmaster for events near a point",
		Tags:        []string{"Events"},
	}, s.handleSearchEvents)

	huma.Register(s.api, huma.Operation{
		OperationID: "eventSuggestions",
		Method:      http.MethodGet,
		Path:        "/api/events/suggestions",
		Summary:     "Keyword suggestions",
		Description: "Returns autocomplete names for a partial keyword",
		Tags:        []string{"Events"},
	}, s.handleSuggestions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEvent",
		Method:      http.MethodGet,
		Path:        "/api/events/{id}",
		Summary:     "Get event",
		Description: "Returns the full detail of an event with its venue and artists",
		Tags:        []string{"Events"},
	}, s.handleGetEvent)
}

// === DTOs ===

// SearchEventsInput contains the search query parameters.
type SearchEventsInput struct {
	Keyword  string  `query:"keyword" required:"true" doc:"Search keyword"`
	Lat      float64 `query:"lat" required:"true" minimum:"-90" maximum:"90" doc:"Latitude"`
	Lng      float64 `query:"lng" required:"true" minimum:"-180" maximum:"180" doc:"Longitude"`
	Category string  `query:"category" default:"All" doc:"Classification name, All for no filter"`
	Distance int     `query:"distance" default:"10" minimum:"0" doc:"Radius in miles"`
}

// SearchEventsOutput contains the matching events.
type SearchEventsOutput struct {
	Body []domain.Event
}

// SuggestionsInput contains the partial keyword.
type SuggestionsInput struct {
	Keyword string `query:"keyword" required:"true" doc:"Partial keyword"`
}

// SuggestionsResponse contains autocomplete names.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions" doc:"Distinct names, at most 10"`
}

// SuggestionsOutput wraps the suggestions response for Huma.
type SuggestionsOutput struct {
	Body SuggestionsResponse
}

// GetEventInput contains the event id.
type GetEventInput struct {
	ID string `path:"id" doc:"Ticketmaster event id"`
}

// GetEventOutput contains the event detail.
type GetEventOutput struct {
	Body *domain.EventDetail
}

// === Handlers ===

func (s *Server) handleSearchEvents(ctx context.Context, input *SearchEventsInput) (*SearchEventsOutput, error) {
	events, err := s.services.Events.SearchEvents(ctx, domain.EventSearch{
		Keyword:  input.Keyword,
		Category: input.Category,
		Lat:      input.Lat,
		Lng:      input.Lng,
		Distance: input.Distance,
	})
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.Event{}
	}
	return &SearchEventsOutput{Body: events}, nil
}

func (s *Server) handleSuggestions(ctx context.Context, input *SuggestionsInput) (*SuggestionsOutput, error) {
	suggestions, err := s.services.Events.Suggestions(ctx, input.Keyword)
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return &SuggestionsOutput{Body: SuggestionsResponse{Suggestions: suggestions}}, nil
}

func (s *Server) handleGetEvent(ctx context.Context, input *GetEventInput) (*GetEventOutput, error) {
	detail, err := s.services.Events.EventDetail(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetEventOutput{Body: detail}, nil
}
