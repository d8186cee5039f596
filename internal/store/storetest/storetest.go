// Package storetest holds the behavior suite every FavoriteStore must pass.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventscope/eventscope-server/internal/domain"
	"github.com/eventscope/eventscope-server/internal/store"
)

// Factory opens an empty store that the suite owns for one subtest.
type Factory func(t *testing.T) store.FavoriteStore

var base = time.Date(2025, 4, 10, 18, 0, 0, 0, time.UTC)

func input(eventID, name string) *domain.FavoriteInput {
	return &domain.FavoriteInput{
		ID:    eventID,
		Name:  name,
		Date:  "2025-05-01",
		Time:  "19:30:00",
		Venue: "Moody Center",
		Genre: "Music",
		URL:   "https://t.example/" + eventID,
	}
}

// Run executes the suite against stores produced by open.
func Run(t *testing.T, open Factory) {
	t.Run("EmptyList", func(t *testing.T) {
		s := open(t)
		favs, err := s.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, favs)
		assert.Empty(t, favs)
	})

	t.Run("UpsertCreates", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		fav, created, err := s.Upsert(ctx, input("ev1", "Show"), base)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, fav.RecordID)
		assert.Equal(t, "ev1", fav.EventID)
		assert.True(t, fav.CreatedAt.Equal(base))

		got, err := s.Get(ctx, "ev1")
		require.NoError(t, err)
		assert.Equal(t, fav.RecordID, got.RecordID)
		assert.Equal(t, "Moody Center", got.Venue)
	})

	t.Run("UpsertIsIdempotentAndKeepsCreatedAt", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		first, _, err := s.Upsert(ctx, input("ev1", "Show"), base)
		require.NoError(t, err)

		changed := input("ev1", "Show (Late)")
		changed.Venue = "Stubb's"
		second, created, err := s.Upsert(ctx, changed, base.Add(time.Hour))
		require.NoError(t, err)

		assert.False(t, created)
		assert.Equal(t, first.RecordID, second.RecordID)
		assert.True(t, second.CreatedAt.Equal(base), "createdAt changed to %v", second.CreatedAt)
		assert.Equal(t, "Show (Late)", second.Name)
		assert.Equal(t, "Stubb's", second.Venue)

		favs, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, favs, 1)
		assert.Equal(t, "Show (Late)", favs[0].Name)
	})

	t.Run("ListOrderedByCreatedAt", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		_, _, err := s.Upsert(ctx, input("c", "Third"), base.Add(2*time.Minute))
		require.NoError(t, err)
		_, _, err = s.Upsert(ctx, input("a", "First"), base)
		require.NoError(t, err)
		_, _, err = s.Upsert(ctx, input("b", "Tie"), base.Add(time.Minute))
		require.NoError(t, err)
		_, _, err = s.Upsert(ctx, input("aa", "Tie"), base.Add(time.Minute))
		require.NoError(t, err)

		favs, err := s.List(ctx)
		require.NoError(t, err)

		ids := make([]string, 0, len(favs))
		for _, f := range favs {
			ids = append(ids, f.EventID)
		}
		assert.Equal(t, []string{"a", "aa", "b", "c"}, ids)
	})

	t.Run("RemoveReturnsRecord", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		_, _, err := s.Upsert(ctx, input("ev1", "Show"), base)
		require.NoError(t, err)

		removed, err := s.Remove(ctx, "ev1")
		require.NoError(t, err)
		require.NotNil(t, removed)
		assert.Equal(t, "Show", removed.Name)
		assert.True(t, removed.CreatedAt.Equal(base))

		_, err = s.Get(ctx, "ev1")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("RemoveMissingIsNoop", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		removed, err := s.Remove(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, removed)

		_, _, err = s.Upsert(ctx, input("ev1", "Show"), base)
		require.NoError(t, err)
		_, err = s.Remove(ctx, "ev1")
		require.NoError(t, err)

		again, err := s.Remove(ctx, "ev1")
		require.NoError(t, err)
		assert.Nil(t, again)
	})

	t.Run("ReAddAfterRemoveGetsNewCreatedAt", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		_, _, err := s.Upsert(ctx, input("ev1", "Show"), base)
		require.NoError(t, err)
		_, err = s.Remove(ctx, "ev1")
		require.NoError(t, err)

		fav, created, err := s.Upsert(ctx, input("ev1", "Show"), base.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, fav.CreatedAt.Equal(base.Add(time.Hour)))
	})

	t.Run("ConcurrentUpsertsOfOneID", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		const writers = 8
		var wg sync.WaitGroup
		errs := make([]error, writers)
		createdCount := make([]bool, writers)
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, createdCount[i], errs[i] = s.Upsert(ctx, input("ev1", fmt.Sprintf("Writer %d", i)), base.Add(time.Duration(i)*time.Second))
			}()
		}
		wg.Wait()

		creates := 0
		for i := range writers {
			require.NoError(t, errs[i])
			if createdCount[i] {
				creates++
			}
		}
		assert.Equal(t, 1, creates)

		favs, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, favs, 1)
	})

	t.Run("Ping", func(t *testing.T) {
		s := open(t)
		assert.NoError(t, s.Ping(context.Background()))
		assert.NotEmpty(t, s.Backend())
	})
}
