package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/eventscope/eventscope-server/internal/domain"
	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
	"github.com/eventscope/eventscope-server/internal/logger"
	"github.com/eventscope/eventscope-server/internal/search"
	"github.com/eventscope/eventscope-server/internal/store"
	"github.com/eventscope/eventscope-server/internal/validation"
)

// FavoriteIndex is the full-text index kept alongside the favorites store.
type FavoriteIndex interface {
	IndexFavorite(f *domain.Favorite) error
	DeleteFavorite(eventID string) error
	Reindex(favorites []*domain.Favorite) error
	Search(ctx context.Context, params search.SearchParams) (*search.Result, error)
}

// FavoriteService manages saved events.
type FavoriteService struct {
	store     store.FavoriteStore
	index     FavoriteIndex // optional
	logger    *slog.Logger
	validator *validation.Validator
	now       func() time.Time
}

// NewFavoriteService creates a new favorite service. index may be nil, in
// which case Search scans the store.
func NewFavoriteService(store store.FavoriteStore, index FavoriteIndex, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		store:     store,
		index:     index,
		logger:    logger,
		validator: validation.New(),
		now:       time.Now,
	}
}

// List returns every favorite, oldest first.
func (s *FavoriteService) List(ctx context.Context) ([]domain.FavoriteEvent, error) {
	favs, err := s.store.List(ctx)
	if err != nil {
		return nil, domainerrors.Store(err, "failed to list favorites")
	}
	return toEvents(favs), nil
}

// Add saves a favorite, or updates the fields of an existing one while keeping
// its original createdAt. created reports whether a new record was made.
func (s *FavoriteService) Add(ctx context.Context, in domain.FavoriteInput) (fav domain.FavoriteEvent, created bool, err error) {
	in = in.Normalized()
	if err := s.validator.Validate(in); err != nil {
		return domain.FavoriteEvent{}, false, err
	}

	f, created, err := s.store.Upsert(ctx, &in, s.now())
	if err != nil {
		return domain.FavoriteEvent{}, false, domainerrors.Store(err, "failed to save favorite")
	}

	if s.index != nil {
		if err := s.index.IndexFavorite(f); err != nil {
			logger.FromContext(ctx, s.logger).Warn("failed to index favorite", "event_id", f.EventID, "error", err)
		}
	}

	logger.FromContext(ctx, s.logger).Info("favorite saved", "event_id", f.EventID, "created", created)
	return f.ToEvent(), created, nil
}

// Remove deletes the favorite for eventID and returns it, or nil when there
// was nothing to remove.
func (s *FavoriteService) Remove(ctx context.Context, eventID string) (*domain.FavoriteEvent, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"id": "is required"})
	}

	f, err := s.store.Remove(ctx, eventID)
	if err != nil {
		return nil, domainerrors.Store(err, "failed to remove favorite")
	}
	if f == nil {
		return nil, nil
	}

	if s.index != nil {
		if err := s.index.DeleteFavorite(eventID); err != nil {
			logger.FromContext(ctx, s.logger).Warn("failed to unindex favorite", "event_id", eventID, "error", err)
		}
	}

	logger.FromContext(ctx, s.logger).Info("favorite removed", "event_id", eventID)
	ev := f.ToEvent()
	return &ev, nil
}

// Search finds saved favorites by free text and genre. An empty query with no
// genre lists favorites newest first.
func (s *FavoriteService) Search(ctx context.Context, query, genre string, limit int) ([]domain.FavoriteEvent, error) {
	if strings.EqualFold(strings.TrimSpace(genre), domain.CategoryAll) {
		genre = ""
	}
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	limit = min(limit, search.MaxLimit)

	favs, err := s.store.List(ctx)
	if err != nil {
		return nil, domainerrors.Store(err, "failed to list favorites")
	}

	if s.index == nil {
		return scanFavorites(favs, query, genre, limit), nil
	}

	res, err := s.index.Search(ctx, search.SearchParams{Query: query, Genre: genre, Limit: limit})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "favorites search failed")
	}

	byID := make(map[string]*domain.Favorite, len(favs))
	for _, f := range favs {
		byID[f.EventID] = f
	}

	out := make([]domain.FavoriteEvent, 0, len(res.Hits))
	for _, hit := range res.Hits {
		// The index is best effort; skip hits the store no longer has.
		if f, ok := byID[hit.EventID]; ok {
			out = append(out, f.ToEvent())
		}
	}
	return out, nil
}

// SyncIndex rebuilds the search index from the store.
func (s *FavoriteService) SyncIndex(ctx context.Context) error {
	if s.index == nil {
		return nil
	}
	favs, err := s.store.List(ctx)
	if err != nil {
		return domainerrors.Store(err, "failed to list favorites")
	}
	return s.index.Reindex(favs)
}

// scanFavorites is the index-less fallback: case-insensitive substring match
// on name and venue, exact genre slug, newest first.
func scanFavorites(favs []*domain.Favorite, query, genre string, limit int) []domain.FavoriteEvent {
	query = strings.ToLower(strings.TrimSpace(query))
	slug := search.Slugify(genre)

	out := make([]domain.FavoriteEvent, 0, min(len(favs), limit))
	for i := len(favs) - 1; i >= 0 && len(out) < limit; i-- {
		f := favs[i]
		if slug != "" && search.Slugify(f.Genre) != slug {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(f.Name), query) &&
			!strings.Contains(strings.ToLower(f.Venue), query) {
			continue
		}
		out = append(out, f.ToEvent())
	}
	return out
}

func toEvents(favs []*domain.Favorite) []domain.FavoriteEvent {
	out := make([]domain.FavoriteEvent, 0, len(favs))
	for _, f := range favs {
		out = append(out, f.ToEvent())
	}
	return out
}
