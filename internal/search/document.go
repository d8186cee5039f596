// Package search provides full-text search over saved favorites using Bleve,
// with fuzzy and prefix matching on event names and exact genre filtering.
package search

import (
	"github.com/eventscope/eventscope-server/internal/domain"
)

// FavoriteDocument is the indexed projection of a favorite. The document id
// is the external event id, so re-indexing an updated favorite replaces it.
type FavoriteDocument struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Venue     string `json:"venue,omitempty"`
	Genre     string `json:"genre,omitempty"`
	GenreSlug string `json:"genre_slug,omitempty"`
	Date      string `json:"date,omitempty"`
	CreatedAt int64  `json:"created_at"` // Unix millis
}

// NewFavoriteDocument builds the index document for f.
func NewFavoriteDocument(f *domain.Favorite) *FavoriteDocument {
	return &FavoriteDocument{
		ID:        f.EventID,
		Name:      f.Name,
		Venue:     f.Venue,
		Genre:     f.Genre,
		GenreSlug: Slugify(f.Genre),
		Date:      f.Date,
		CreatedAt: f.CreatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *FavoriteDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"name":       d.Name,
		"created_at": d.CreatedAt,
	}
	if d.Venue != "" {
		m["venue"] = d.Venue
	}
	if d.Genre != "" {
		m["genre"] = d.Genre
	}
	if d.GenreSlug != "" {
		m["genre_slug"] = d.GenreSlug
	}
	if d.Date != "" {
		m["date"] = d.Date
	}
	return m
}
