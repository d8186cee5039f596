// Package store persists favorites. The Badger implementation lives here; the
// SQLite implementation in store/sqlite satisfies the same FavoriteStore.
package store

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/eventscope/eventscope-server/internal/domain"
)

// FavoriteStore is the document store adapter for favorites. Implementations
// key records by external event id and never change CreatedAt after insert.
type FavoriteStore interface {
	// List returns every favorite ordered by CreatedAt ascending, ties by event id.
	List(ctx context.Context) ([]*domain.Favorite, error)

	// Upsert inserts a new favorite stamped with now, or updates the descriptive
	// fields of the existing one. created reports which happened.
	Upsert(ctx context.Context, in *domain.FavoriteInput, now time.Time) (fav *domain.Favorite, created bool, err error)

	// Remove deletes the favorite and returns it, or nil when none existed.
	Remove(ctx context.Context, eventID string) (*domain.Favorite, error)

	// Get returns ErrNotFound when the favorite does not exist.
	Get(ctx context.Context, eventID string) (*domain.Favorite, error)

	Ping(ctx context.Context) error
	Backend() string
	Close() error
}

// SortFavorites orders favorites by CreatedAt ascending, ties by event id.
func SortFavorites(favs []*domain.Favorite) {
	slices.SortStableFunc(favs, func(a, b *domain.Favorite) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.EventID, b.EventID)
	})
}
