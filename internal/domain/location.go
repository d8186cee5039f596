package domain

// GeoLocation is a geocoded address.
type GeoLocation struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formattedAddress,omitempty"`
}

// IPLocation is the caller's approximate location derived from their IP.
type IPLocation struct {
	City    string  `json:"city"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Label   string  `json:"label" doc:"\"city, region\" as shown in the location field"`
}
