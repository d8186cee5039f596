package ticketmaster

// Discovery API payloads. Every field is optional; the normalizers never
// assume a field is present.

// EventsResponse is the body of /events.json.
type EventsResponse struct {
	Embedded *struct {
		Events []RawEvent `json:"events"`
	} `json:"_embedded"`
}

// RawEvent is an event in a search response.
type RawEvent struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	URL             string           `json:"url"`
	Dates           Dates            `json:"dates"`
	Classifications []Classification `json:"classifications"`
	Images          []Image          `json:"images"`
	Embedded        struct {
		Venues []Venue `json:"venues"`
	} `json:"_embedded"`
}

// EventDetailResponse is the body of /events/{id}.
type EventDetailResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	URL             string           `json:"url"`
	Info            string           `json:"info"`
	PleaseNote      string           `json:"pleaseNote"`
	Dates           Dates            `json:"dates"`
	Classifications []Classification `json:"classifications"`
	PriceRanges     []PriceRange     `json:"priceRanges"`
	Seatmap         struct {
		StaticURL string `json:"staticUrl"`
	} `json:"seatmap"`
	Images   []Image `json:"images"`
	Embedded struct {
		Venues      []Venue      `json:"venues"`
		Attractions []Attraction `json:"attractions"`
	} `json:"_embedded"`
}

// SuggestResponse is the body of /suggest.
type SuggestResponse struct {
	Embedded *struct {
		Attractions []Named `json:"attractions"`
		Venues      []Named `json:"venues"`
		Events      []Named `json:"events"`
	} `json:"_embedded"`
}

// Named is any embedded object of which only the name is used.
type Named struct {
	Name string `json:"name"`
}

// Dates holds start date/time and sale status.
type Dates struct {
	Start struct {
		LocalDate string `json:"localDate"`
		LocalTime string `json:"localTime"`
	} `json:"start"`
	Status struct {
		Code string `json:"code"`
	} `json:"status"`
}

// Classification is one genre ladder. Levels run from broadest to most specific.
type Classification struct {
	Segment  Named `json:"segment"`
	Genre    Named `json:"genre"`
	SubGenre Named `json:"subGenre"`
	Type     Named `json:"type"`
	SubType  Named `json:"subType"`
}

// Image is a provider image reference.
type Image struct {
	URL string `json:"url"`
}

// Venue is an embedded venue.
type Venue struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Address struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	City       Named  `json:"city"`
	State      Named  `json:"state"`
	Country    Named  `json:"country"`
	PostalCode string `json:"postalCode"`
	Location   *struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"location"`
	Images        []Image `json:"images"`
	ParkingDetail string  `json:"parkingDetail"`
	GeneralInfo   struct {
		GeneralRule   string `json:"generalRule"`
		ChildRule     string `json:"childRule"`
		ParkingDetail string `json:"parkingDetail"`
	} `json:"generalInfo"`
}

// Attraction is an embedded performer.
type Attraction struct {
	Name          string  `json:"name"`
	URL           string  `json:"url"`
	Images        []Image `json:"images"`
	ExternalLinks struct {
		Twitter  []Image `json:"twitter"`
		Facebook []Image `json:"facebook"`
	} `json:"externalLinks"`
}

// PriceRange is passed through to clients unchanged.
type PriceRange struct {
	Type     string   `json:"type"`
	Currency string   `json:"currency"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
}
