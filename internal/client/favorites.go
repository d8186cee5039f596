package client

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/eventscope/eventscope-server/internal/domain"
)

// ErrPending is returned when an operation on a favorite is already in flight.
var ErrPending = errors.New("client: favorite update already in progress")

// FavoritesBackend is the store the cache mirrors. *Client implements it.
type FavoritesBackend interface {
	ListFavorites(ctx context.Context) ([]domain.FavoriteEvent, error)
	AddFavorite(ctx context.Context, in domain.FavoriteInput) (domain.FavoriteEvent, bool, error)
	RemoveFavorite(ctx context.Context, id string) (*domain.FavoriteEvent, error)
}

// OpState is the state of the last operation on one favorite id.
type OpState int

const (
	StateIdle OpState = iota
	StatePending
	StateCommitted
	StateRolledBack
)

func (s OpState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled-back"
	default:
		return "idle"
	}
}

// FavoritesCache is an in-memory, createdAt-ordered mirror of the favorites
// store. Reads never touch the network; writes go to the store first and
// update the local list only once the store has answered.
type FavoritesCache struct {
	backend FavoritesBackend

	mu        sync.Mutex
	favorites []domain.FavoriteEvent
	states    map[string]OpState
	onChange  func([]domain.FavoriteEvent)
}

// NewFavoritesCache creates an empty cache. Call Refresh to load it.
func NewFavoritesCache(backend FavoritesBackend) *FavoritesCache {
	return &FavoritesCache{
		backend: backend,
		states:  make(map[string]OpState),
	}
}

// OnChange registers fn to be called with a snapshot after every change.
func (c *FavoritesCache) OnChange(fn func([]domain.FavoriteEvent)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Refresh reloads the list from the store. On error the current list is kept.
func (c *FavoritesCache) Refresh(ctx context.Context) error {
	favs, err := c.backend.ListFavorites(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.favorites = sortFavorites(favs)
	c.mu.Unlock()
	c.notify()
	return nil
}

// IsFavorite reports whether id is in the list.
func (c *FavoritesCache) IsFavorite(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(id) >= 0
}

// Get returns the cached favorite for id.
func (c *FavoritesCache) Get(id string) (domain.FavoriteEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.favorites[i], true
	}
	return domain.FavoriteEvent{}, false
}

// List returns a copy of the list, oldest first.
func (c *FavoritesCache) List() []domain.FavoriteEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.favorites)
}

// State returns the state of the last operation on id.
func (c *FavoritesCache) State(id string) OpState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[id]
}

// IsPending reports whether an operation on id is in flight.
func (c *FavoritesCache) IsPending(id string) bool {
	return c.State(id) == StatePending
}

// Add saves in to the store and puts the stored record in the list,
// replacing any entry with the same id.
func (c *FavoritesCache) Add(ctx context.Context, in domain.FavoriteInput) (domain.FavoriteEvent, error) {
	id := strings.TrimSpace(in.ID)
	if err := c.begin(id); err != nil {
		return domain.FavoriteEvent{}, err
	}

	fav, _, err := c.backend.AddFavorite(ctx, in)
	if err != nil {
		c.finish(id, err)
		return domain.FavoriteEvent{}, err
	}

	c.mu.Lock()
	c.favorites = slices.DeleteFunc(c.favorites, func(f domain.FavoriteEvent) bool { return f.ID == fav.ID })
	c.favorites = sortFavorites(append(c.favorites, fav))
	c.mu.Unlock()

	c.finish(id, nil)
	c.notify()
	return fav, nil
}

// Remove deletes id from the store and drops it from the list whatever the
// store reports. The returned Undo re-creates the removed record; it is nil
// when the store had nothing to remove.
func (c *FavoritesCache) Remove(ctx context.Context, id string) (*Undo, error) {
	return c.remove(ctx, id, nil)
}

// ToggleResult describes what Toggle did.
type ToggleResult struct {
	Added    bool
	Favorite domain.FavoriteEvent
	// Undo reverses a removal. Nil after an add.
	Undo *Undo
}

// Toggle adds in when it is not a favorite and removes it when it is.
// A removal's Undo falls back to in when the store returned no record.
func (c *FavoritesCache) Toggle(ctx context.Context, in domain.FavoriteInput) (ToggleResult, error) {
	if c.IsFavorite(in.ID) {
		undo, err := c.remove(ctx, in.ID, &in)
		if err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{Undo: undo}, nil
	}

	fav, err := c.Add(ctx, in)
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{Added: true, Favorite: fav}, nil
}

func (c *FavoritesCache) remove(ctx context.Context, id string, fallback *domain.FavoriteInput) (*Undo, error) {
	if err := c.begin(id); err != nil {
		return nil, err
	}

	removed, err := c.backend.RemoveFavorite(ctx, id)
	if err != nil {
		c.finish(id, err)
		return nil, err
	}

	c.mu.Lock()
	c.favorites = slices.DeleteFunc(c.favorites, func(f domain.FavoriteEvent) bool { return f.ID == id })
	c.mu.Unlock()

	c.finish(id, nil)
	c.notify()

	switch {
	case removed != nil:
		return &Undo{cache: c, Removed: removed, Input: removed.Input()}, nil
	case fallback != nil:
		return &Undo{cache: c, Input: *fallback}, nil
	default:
		return nil, nil
	}
}

// begin moves id to pending, or fails with ErrPending if it already is.
func (c *FavoritesCache) begin(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.states[id] == StatePending {
		return ErrPending
	}
	c.states[id] = StatePending
	return nil
}

func (c *FavoritesCache) finish(id string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.states[id] = StateRolledBack
		return
	}
	c.states[id] = StateCommitted
}

// notify calls the change listener outside the lock.
func (c *FavoritesCache) notify() {
	c.mu.Lock()
	fn := c.onChange
	snapshot := slices.Clone(c.favorites)
	c.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}

// indexOf must be called with mu held.
func (c *FavoritesCache) indexOf(id string) int {
	return slices.IndexFunc(c.favorites, func(f domain.FavoriteEvent) bool { return f.ID == id })
}

func sortFavorites(favs []domain.FavoriteEvent) []domain.FavoriteEvent {
	out := slices.Clone(favs)
	slices.SortStableFunc(out, func(a, b domain.FavoriteEvent) int {
		return a.CreatedTime().Compare(b.CreatedTime())
	})
	return out
}

// Undo re-creates a removed favorite with the values captured at removal.
type Undo struct {
	cache *FavoritesCache
	// Removed is the store's record, nil when Input came from the caller.
	Removed *domain.FavoriteEvent
	Input   domain.FavoriteInput
}

// Apply re-adds the favorite.
func (u *Undo) Apply(ctx context.Context) (domain.FavoriteEvent, error) {
	return u.cache.Add(ctx, u.Input)
}
