package store

import (
	"context"
	"fmt"
	"time"

	"github.com/eventscope/eventscope-server/internal/domain"
	"github.com/eventscope/eventscope-server/internal/id"
)

// List returns all favorites ordered by creation time.
func (s *Store) List(ctx context.Context) ([]*domain.Favorite, error) {
	favs := []*domain.Favorite{}
	for fav, err := range s.favorites.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list favorites: %w", err)
		}
		favs = append(favs, fav)
	}
	SortFavorites(favs)
	return favs, nil
}

// Get returns the favorite for eventID.
func (s *Store) Get(ctx context.Context, eventID string) (*domain.Favorite, error) {
	return s.favorites.Get(ctx, eventID)
}

// Upsert creates or updates the favorite keyed by in.ID.
func (s *Store) Upsert(ctx context.Context, in *domain.FavoriteInput, now time.Time) (*domain.Favorite, bool, error) {
	var created bool
	fav, err := s.favorites.Mutate(ctx, in.ID, func(existing *domain.Favorite) (*domain.Favorite, error) {
		created = existing == nil
		if created {
			recordID, err := id.Generate(id.PrefixFavorite)
			if err != nil {
				return nil, err
			}
			existing = &domain.Favorite{
				RecordID:  recordID,
				EventID:   in.ID,
				CreatedAt: now.UTC(),
			}
		}
		existing.Apply(in)
		return existing, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("upsert favorite %s: %w", in.ID, err)
	}

	if s.logger != nil {
		s.logger.Debug("favorite saved", "event_id", fav.EventID, "created", created)
	}
	return fav, created, nil
}

// Remove deletes the favorite for eventID, returning it when it existed.
func (s *Store) Remove(ctx context.Context, eventID string) (*domain.Favorite, error) {
	fav, err := s.favorites.Take(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("remove favorite %s: %w", eventID, err)
	}
	return fav, nil
}

// Count returns the number of stored favorites.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.favorites.Count(ctx)
}
