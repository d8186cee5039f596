// Package domain contains the core types shared by the EventScope services,
// the HTTP surface and the client SDK.
package domain

// CategoryAll is the category sentinel meaning "no classification filter".
const CategoryAll = "All"

// DefaultDistanceMiles is the search radius used when none is given.
const DefaultDistanceMiles = 10

// Event is a search result. Every field is always present on the wire;
// missing provider data becomes an empty string.
type Event struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Date  string `json:"date" doc:"Local date (YYYY-MM-DD) or empty"`
	Time  string `json:"time" doc:"Local 24h time (HH:MM:SS) or empty"`
	Venue string `json:"venue"`
	Genre string `json:"genre" doc:"Primary classification segment"`
	Image string `json:"image"`
	URL   string `json:"url" doc:"Ticket purchase link"`
}

// EventSearch holds the parameters of an event search.
type EventSearch struct {
	Keyword  string  `json:"keyword" validate:"notblank,max=256"`
	Category string  `json:"category,omitempty"`
	Lat      float64 `json:"lat" validate:"latitude"`
	Lng      float64 `json:"lng" validate:"longitude"`
	Distance int     `json:"distance" validate:"gte=0"` // miles
}

// EventDetail is the full view of a single event.
type EventDetail struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	URL         string       `json:"url"`
	Date        string       `json:"date"`
	Time        string       `json:"time"`
	Status      string       `json:"status" doc:"Ticket sale status code (onsale, offsale, ...)"`
	Venue       *VenueDetail `json:"venue" doc:"Null when the provider sent no venue"`
	Genres      []string     `json:"genres" doc:"Most specific classification last, de-duplicated"`
	Artists     []Artist     `json:"artists"`
	PriceRanges []PriceRange `json:"priceRanges"`
	SeatmapURL  string       `json:"seatmapUrl,omitempty"`
	Info        string       `json:"info,omitempty"`
	PleaseNote  string       `json:"pleaseNote,omitempty"`
}

// VenueDetail describes where an event takes place.
type VenueDetail struct {
	Name          string    `json:"name"`
	Address       string    `json:"address" doc:"Non-empty address parts joined with \", \""`
	City          string    `json:"city"`
	State         string    `json:"state"`
	PostalCode    string    `json:"postalCode"`
	Country       string    `json:"country"`
	Location      *GeoPoint `json:"location,omitempty"`
	URL           string    `json:"url,omitempty"`
	Image         string    `json:"image,omitempty"`
	GeneralRule   string    `json:"generalRule,omitempty"`
	ChildRule     string    `json:"childRule,omitempty"`
	ParkingDetail string    `json:"parkingDetail,omitempty"`
}

// GeoPoint is a coordinate pair as the provider reports it (decimal strings).
type GeoPoint struct {
	Latitude  string `json:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty"`
}

// Artist is a performer attached to an event.
type Artist struct {
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Facebook string `json:"facebook,omitempty"`
	Image    string `json:"image,omitempty"`
}

// PriceRange is passed through from the provider unchanged.
type PriceRange struct {
	Type     string   `json:"type,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}
