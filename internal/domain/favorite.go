package domain

import (
	"strings"
	"time"
)

// TimestampLayout renders createdAt as UTC ISO-8601 with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Favorite is a persisted favorite record. EventID is the natural key;
// RecordID is the store's own identifier and never leaves the server.
type Favorite struct {
	RecordID  string    `json:"recordId"`
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Venue     string    `json:"venue"`
	Genre     string    `json:"genre"`
	Image     string    `json:"image"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// Apply copies the descriptive fields of in onto f. Identity and CreatedAt are untouched.
func (f *Favorite) Apply(in *FavoriteInput) {
	f.Name = in.Name
	f.Date = in.Date
	f.Time = in.Time
	f.Venue = in.Venue
	f.Genre = in.Genre
	f.Image = in.Image
	f.URL = in.URL
}

// ToEvent converts the record to its wire form.
func (f *Favorite) ToEvent() FavoriteEvent {
	return FavoriteEvent{
		ID:        f.EventID,
		Name:      f.Name,
		Date:      f.Date,
		Time:      f.Time,
		Venue:     f.Venue,
		Genre:     f.Genre,
		Image:     f.Image,
		URL:       f.URL,
		CreatedAt: f.CreatedAt.UTC().Format(TimestampLayout),
	}
}

// FavoriteEvent is a favorite as clients see it.
type FavoriteEvent struct {
	ID        string `json:"id" doc:"External event id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Venue     string `json:"venue"`
	Genre     string `json:"genre"`
	Image     string `json:"image"`
	URL       string `json:"url"`
	CreatedAt string `json:"createdAt" doc:"ISO-8601 creation time, immutable"`
}

// CreatedTime parses CreatedAt. A malformed value yields the zero time.
func (f FavoriteEvent) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, f.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Input returns the descriptive payload needed to re-create this favorite.
func (f FavoriteEvent) Input() FavoriteInput {
	return FavoriteInput{
		ID:    f.ID,
		Name:  f.Name,
		Date:  f.Date,
		Time:  f.Time,
		Venue: f.Venue,
		Genre: f.Genre,
		Image: f.Image,
		URL:   f.URL,
	}
}

// FavoriteInput is the payload for adding a favorite. Only ID and Name are required.
type FavoriteInput struct {
	_     struct{} `json:"-" additionalProperties:"true"`
	ID    string   `json:"id,omitempty" validate:"notblank,max=256" doc:"External event id"`
	Name  string   `json:"name,omitempty" validate:"notblank,max=512"`
	Date  string   `json:"date,omitempty"`
	Time  string   `json:"time,omitempty"`
	Venue string   `json:"venue,omitempty"`
	Genre string   `json:"genre,omitempty"`
	Image string   `json:"image,omitempty"`
	URL   string   `json:"url,omitempty"`
}

// Normalized returns a copy with the id and name trimmed.
func (in FavoriteInput) Normalized() FavoriteInput {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	return in
}

// FavoriteFromEvent builds the favorite payload for a search result.
func FavoriteFromEvent(e Event) FavoriteInput {
	return FavoriteInput{
		ID:    e.ID,
		Name:  e.Name,
		Date:  e.Date,
		Time:  e.Time,
		Venue: e.Venue,
		Genre: e.Genre,
		Image: e.Image,
		URL:   e.URL,
	}
}
