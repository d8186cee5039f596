package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventscope/eventscope-server/internal/domain"
	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
	"github.com/eventscope/eventscope-server/internal/logger"
	"github.com/eventscope/eventscope-server/internal/search"
	"github.com/eventscope/eventscope-server/internal/store"
)

func setupFavoriteService(t *testing.T, withIndex bool) *FavoriteService {
	t.Helper()

	s, err := store.NewInMemory(logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	var index FavoriteIndex
	if withIndex {
		idx, err := search.New(search.Options{})
		require.NoError(t, err)
		t.Cleanup(func() { _ = idx.Close() })
		index = idx
	}

	svc := NewFavoriteService(s, index, logger.Discard())

	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func TestFavoriteService_AddIsIdempotent(t *testing.T) {
	svc := setupFavoriteService(t, false)
	ctx := context.Background()

	first, created, err := svc.Add(ctx, domain.FavoriteInput{ID: " e1 ", Name: "Hamilton", Venue: "Pantages"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "e1", first.ID)

	second, created, err := svc.Add(ctx, domain.FavoriteInput{ID: "e1", Name: "Hamilton (Matinee)"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "Hamilton (Matinee)", second.Name)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFavoriteService_LogsWithRequestLogger(t *testing.T) {
	svc := setupFavoriteService(t, false)

	var buf bytes.Buffer
	scoped := slog.New(slog.NewJSONHandler(&buf, nil)).With("request_id", "req-42")
	ctx := logger.WithContext(context.Background(), scoped)

	_, _, err := svc.Add(ctx, domain.FavoriteInput{ID: "e1", Name: "Hamilton"})
	require.NoError(t, err)
	_, err = svc.Remove(ctx, "e1")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"favorite saved"`)
	assert.Contains(t, out, `"msg":"favorite removed"`)
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte(`"request_id":"req-42"`)))
}

func TestFavoriteService_AddValidation(t *testing.T) {
	svc := setupFavoriteService(t, false)

	_, _, err := svc.Add(context.Background(), domain.FavoriteInput{ID: "  ", Name: ""})
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)
	assert.Equal(t, map[string]string{"id": "is required", "name": "is required"}, derr.Details)
}

func TestFavoriteService_Remove(t *testing.T) {
	svc := setupFavoriteService(t, true)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, domain.FavoriteInput{ID: "e1", Name: "Hamilton"})
	require.NoError(t, err)

	removed, err := svc.Remove(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "Hamilton", removed.Name)

	removed, err = svc.Remove(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, removed)

	hits, err := svc.Search(ctx, "hamilton", "", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = svc.Remove(ctx, " ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestFavoriteService_Search(t *testing.T) {
	for _, withIndex := range []bool{true, false} {
		name := "scan"
		if withIndex {
			name = "index"
		}
		t.Run(name, func(t *testing.T) {
			svc := setupFavoriteService(t, withIndex)
			ctx := context.Background()

			for _, in := range []domain.FavoriteInput{
				{ID: "e1", Name: "Tame Impala", Venue: "Hollywood Bowl", Genre: "Rock"},
				{ID: "e2", Name: "Hamilton", Venue: "Pantages Theatre", Genre: "Arts & Theatre"},
				{ID: "e3", Name: "Arctic Monkeys", Venue: "Kia Forum", Genre: "Rock"},
			} {
				_, _, err := svc.Add(ctx, in)
				require.NoError(t, err)
			}

			all, err := svc.Search(ctx, "", domain.CategoryAll, 0)
			require.NoError(t, err)
			assert.Equal(t, []string{"e3", "e2", "e1"}, favoriteIDs(all))

			rock, err := svc.Search(ctx, "", "rock", 0)
			require.NoError(t, err)
			assert.Equal(t, []string{"e3", "e1"}, favoriteIDs(rock))

			byName, err := svc.Search(ctx, "hamilton", "", 0)
			require.NoError(t, err)
			assert.Equal(t, []string{"e2"}, favoriteIDs(byName))

			limited, err := svc.Search(ctx, "", "", 1)
			require.NoError(t, err)
			assert.Equal(t, []string{"e3"}, favoriteIDs(limited))
		})
	}
}

func TestFavoriteService_SyncIndex(t *testing.T) {
	svc := setupFavoriteService(t, true)
	ctx := context.Background()

	// Write behind the service's back so only a resync can see it.
	_, _, err := svc.store.Upsert(ctx, &domain.FavoriteInput{ID: "e9", Name: "Bad Bunny"}, time.Now())
	require.NoError(t, err)

	hits, err := svc.Search(ctx, "bunny", "", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, svc.SyncIndex(ctx))

	hits, err = svc.Search(ctx, "bunny", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"e9"}, favoriteIDs(hits))
}

type failingStore struct{ store.FavoriteStore }

func (failingStore) List(context.Context) ([]*domain.Favorite, error) {
	return nil, errors.New("disk on fire")
}

func TestFavoriteService_StoreErrors(t *testing.T) {
	svc := NewFavoriteService(failingStore{}, nil, logger.Discard())

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrStore)
	assert.Equal(t, 500, domainerrors.CodeOf(err).HTTPStatus())
}

func favoriteIDs(favs []domain.FavoriteEvent) []string {
	ids := make([]string, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.ID)
	}
	return ids
}
