package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFavorite_ApplyKeepsIdentity(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &Favorite{RecordID: "fav-1", EventID: "ev1", Name: "Old", CreatedAt: created}

	f.Apply(&FavoriteInput{ID: "ignored", Name: "New", Venue: "Moody Center"})

	assert.Equal(t, "fav-1", f.RecordID)
	assert.Equal(t, "ev1", f.EventID)
	assert.Equal(t, "New", f.Name)
	assert.Equal(t, "Moody Center", f.Venue)
	assert.Equal(t, created, f.CreatedAt)
}

func TestFavorite_ToEventTimestamp(t *testing.T) {
	f := &Favorite{EventID: "ev1", Name: "Show", CreatedAt: time.Date(2025, 3, 1, 12, 30, 5, 123_000_000, time.FixedZone("CST", -6*3600))}

	ev := f.ToEvent()

	assert.Equal(t, "ev1", ev.ID)
	assert.Equal(t, "2025-03-01T18:30:05.123Z", ev.CreatedAt)
	assert.True(t, ev.CreatedTime().Equal(f.CreatedAt))
}

func TestFavoriteInput_Normalized(t *testing.T) {
	in := FavoriteInput{ID: " ev1 ", Name: "  Show  ", Venue: " keep "}.Normalized()

	assert.Equal(t, "ev1", in.ID)
	assert.Equal(t, "Show", in.Name)
	assert.Equal(t, " keep ", in.Venue)
}

func TestFavoriteEvent_InputRoundTrip(t *testing.T) {
	ev := FavoriteEvent{ID: "ev1", Name: "Show", Date: "2025-05-01", URL: "https://t.example/ev1", CreatedAt: "2025-01-01T00:00:00.000Z"}

	assert.Equal(t, FavoriteInput{ID: "ev1", Name: "Show", Date: "2025-05-01", URL: "https://t.example/ev1"}, ev.Input())
}
