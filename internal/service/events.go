// Package service holds the EventScope business logic: it validates input,
// calls the upstream providers and the favorites store, and translates their
// failures into domain errors.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/eventscope/eventscope-server/internal/domain"
	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
	"github.com/eventscope/eventscope-server/internal/logger"
	"github.com/eventscope/eventscope-server/internal/validation"
)

// EventProvider is the Discovery API surface used by EventService.
type EventProvider interface {
	SearchEvents(ctx context.Context, params domain.EventSearch) ([]domain.Event, error)
	Suggestions(ctx context.Context, keyword string) ([]string, error)
	EventDetail(ctx context.Context, id string) (*domain.EventDetail, error)
}

// EventService serves event search, keyword suggestions and event detail.
type EventService struct {
	events    EventProvider
	logger    *slog.Logger
	validator *validation.Validator
}

// NewEventService creates a new event service.
func NewEventService(events EventProvider, logger *slog.Logger) *EventService {
	return &EventService{
		events:    events,
		logger:    logger,
		validator: validation.New(),
	}
}

// SearchEvents finds events near a point. An empty category means "All" and a
// zero distance means the default radius. No results is an empty slice.
func (s *EventService) SearchEvents(ctx context.Context, params domain.EventSearch) ([]domain.Event, error) {
	params.Keyword = strings.TrimSpace(params.Keyword)
	params.Category = strings.TrimSpace(params.Category)
	if params.Category == "" {
		params.Category = domain.CategoryAll
	}
	if params.Distance == 0 {
		params.Distance = domain.DefaultDistanceMiles
	}

	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	events, err := s.events.SearchEvents(ctx, params)
	if err != nil {
		return nil, ticketmasterError(err)
	}

	logger.FromContext(ctx, s.logger).Debug("event search served",
		"keyword", params.Keyword,
		"category", params.Category,
		"events", len(events),
	)
	return events, nil
}

// Suggestions returns autocomplete names for keyword.
func (s *EventService) Suggestions(ctx context.Context, keyword string) ([]string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"keyword": "is required"})
	}

	suggestions, err := s.events.Suggestions(ctx, keyword)
	if err != nil {
		return nil, ticketmasterError(err)
	}
	return suggestions, nil
}

// EventDetail returns the full view of one event.
func (s *EventService) EventDetail(ctx context.Context, id string) (*domain.EventDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"id": "is required"})
	}

	detail, err := s.events.EventDetail(ctx, id)
	if err != nil {
		return nil, ticketmasterError(err)
	}
	return detail, nil
}
