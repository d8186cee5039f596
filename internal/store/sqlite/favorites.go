package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eventscope/eventscope-server/internal/domain"
	"github.com/eventscope/eventscope-server/internal/store"
)

// favoriteColumns is the ordered list of columns selected in favorite queries.
// Must match the scan order in scanFavorite.
const favoriteColumns = `record_id, event_id, name, date, time, venue, genre, image, url, created_at`

// scanFavorite scans a sql.Row (or sql.Rows via its Scan method) into a domain.Favorite.
func scanFavorite(scanner interface{ Scan(dest ...any) error }) (*domain.Favorite, error) {
	var (
		f         domain.Favorite
		createdAt string
	)

	err := scanner.Scan(
		&f.RecordID,
		&f.EventID,
		&f.Name,
		&f.Date,
		&f.Time,
		&f.Venue,
		&f.Genre,
		&f.Image,
		&f.URL,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	f.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return &f, nil
}

// List returns all favorites ordered by creation time, ties by event id.
func (s *Store) List(ctx context.Context) ([]*domain.Favorite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites ORDER BY created_at ASC, event_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favs := []*domain.Favorite{}
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favs = append(favs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// created_at strings with differing fractional widths do not sort lexically.
	store.SortFavorites(favs)
	return favs, nil
}

// Get retrieves a favorite by event id.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) Get(ctx context.Context, eventID string) (*domain.Favorite, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE event_id = ?`, eventID)

	f, err := scanFavorite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Upsert inserts a favorite or updates the existing row for the same event id.
// created_at and record_id are never touched by the update branch, so the
// returned record_id tells whether this call inserted the row.
func (s *Store) Upsert(ctx context.Context, in *domain.FavoriteInput, now time.Time) (*domain.Favorite, bool, error) {
	recordID := uuid.NewString()
	stamp := formatTime(now)

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO favorites (record_id, event_id, name, date, time, venue, genre, image, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO UPDATE SET
			name = excluded.name,
			date = excluded.date,
			time = excluded.time,
			venue = excluded.venue,
			genre = excluded.genre,
			image = excluded.image,
			url = excluded.url,
			updated_at = excluded.updated_at
		RETURNING `+favoriteColumns,
		recordID,
		in.ID,
		in.Name,
		in.Date,
		in.Time,
		in.Venue,
		in.Genre,
		in.Image,
		in.URL,
		stamp,
		formatTime(s.now()),
	)

	f, err := scanFavorite(row)
	if err != nil {
		return nil, false, fmt.Errorf("upsert favorite %s: %w", in.ID, err)
	}

	created := f.RecordID == recordID
	if s.logger != nil {
		s.logger.Debug("favorite saved", "event_id", f.EventID, "created", created)
	}
	return f, created, nil
}

// Remove deletes the favorite for eventID and returns the deleted row,
// or nil when no row matched.
func (s *Store) Remove(ctx context.Context, eventID string) (*domain.Favorite, error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM favorites WHERE event_id = ? RETURNING `+favoriteColumns, eventID)

	f, err := scanFavorite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("remove favorite %s: %w", eventID, err)
	}
	return f, nil
}

// Count returns the number of stored favorites.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites`).Scan(&n)
	return n, err
}
