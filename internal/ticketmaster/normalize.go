package ticketmaster

import (
	"slices"
	"strings"

	"github.com/eventscope/eventscope-server/internal/domain"
)

// MaxSuggestions caps the merged suggestion list.
const MaxSuggestions = 10

// ToEvents maps a search response to events. A response without
// _embedded.events yields an empty, non-nil slice.
func ToEvents(resp *EventsResponse) []domain.Event {
	if resp == nil || resp.Embedded == nil {
		return []domain.Event{}
	}

	events := make([]domain.Event, 0, len(resp.Embedded.Events))
	for i := range resp.Embedded.Events {
		raw := &resp.Embedded.Events[i]
		ev := domain.Event{
			ID:    raw.ID,
			Name:  raw.Name,
			Date:  raw.Dates.Start.LocalDate,
			Time:  raw.Dates.Start.LocalTime,
			Image: firstImage(raw.Images),
			URL:   raw.URL,
		}
		if len(raw.Embedded.Venues) > 0 {
			ev.Venue = raw.Embedded.Venues[0].Name
		}
		if len(raw.Classifications) > 0 {
			ev.Genre = raw.Classifications[0].Segment.Name
		}
		events = append(events, ev)
	}
	return events
}

// ExtractGenres returns the non-empty levels of the first classification in
// order segment, genre, subGenre, type, subType, keeping the first occurrence
// of each name.
func ExtractGenres(classifications []Classification) []string {
	if len(classifications) == 0 {
		return []string{}
	}

	c := classifications[0]
	genres := make([]string, 0, 5)
	for _, name := range []string{c.Segment.Name, c.Genre.Name, c.SubGenre.Name, c.Type.Name, c.SubType.Name} {
		if name == "" || slices.Contains(genres, name) {
			continue
		}
		genres = append(genres, name)
	}
	return genres
}

// ExtractVenue maps the first venue, or returns nil when there is none.
func ExtractVenue(venues []Venue) *domain.VenueDetail {
	if len(venues) == 0 {
		return nil
	}

	v := &venues[0]
	parts := make([]string, 0, 5)
	for _, p := range []string{v.Address.Line1, v.City.Name, v.State.Name, v.PostalCode, v.Country.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	parking := v.GeneralInfo.ParkingDetail
	if parking == "" {
		parking = v.ParkingDetail
	}

	detail := &domain.VenueDetail{
		Name:          v.Name,
		Address:       strings.Join(parts, ", "),
		City:          v.City.Name,
		State:         v.State.Name,
		PostalCode:    v.PostalCode,
		Country:       v.Country.Name,
		URL:           v.URL,
		Image:         firstImage(v.Images),
		GeneralRule:   htmlToMarkdown(v.GeneralInfo.GeneralRule),
		ChildRule:     htmlToMarkdown(v.GeneralInfo.ChildRule),
		ParkingDetail: htmlToMarkdown(parking),
	}
	if v.Location != nil && (v.Location.Latitude != "" || v.Location.Longitude != "") {
		detail.Location = &domain.GeoPoint{
			Latitude:  v.Location.Latitude,
			Longitude: v.Location.Longitude,
		}
	}
	return detail
}

// ExtractArtists maps attractions to artists, dropping nameless entries.
func ExtractArtists(attractions []Attraction) []domain.Artist {
	artists := make([]domain.Artist, 0, len(attractions))
	for i := range attractions {
		a := &attractions[i]
		if a.Name == "" {
			continue
		}
		artist := domain.Artist{
			Name:  a.Name,
			URL:   a.URL,
			Image: firstImage(a.Images),
		}
		if len(a.ExternalLinks.Twitter) > 0 {
			artist.Twitter = a.ExternalLinks.Twitter[0].URL
		}
		if len(a.ExternalLinks.Facebook) > 0 {
			artist.Facebook = a.ExternalLinks.Facebook[0].URL
		}
		artists = append(artists, artist)
	}
	return artists
}

// ToEventDetail maps a detail response. The caller has already checked the id.
func ToEventDetail(resp *EventDetailResponse) *domain.EventDetail {
	prices := make([]domain.PriceRange, 0, len(resp.PriceRanges))
	for _, p := range resp.PriceRanges {
		prices = append(prices, domain.PriceRange(p))
	}

	return &domain.EventDetail{
		ID:          resp.ID,
		Name:        resp.Name,
		URL:         resp.URL,
		Date:        resp.Dates.Start.LocalDate,
		Time:        resp.Dates.Start.LocalTime,
		Status:      resp.Dates.Status.Code,
		Venue:       ExtractVenue(resp.Embedded.Venues),
		Genres:      ExtractGenres(resp.Classifications),
		Artists:     ExtractArtists(resp.Embedded.Attractions),
		PriceRanges: prices,
		SeatmapURL:  resp.Seatmap.StaticURL,
		Info:        stripHTML(resp.Info),
		PleaseNote:  stripHTML(resp.PleaseNote),
	}
}

// MergeSuggestions collects trimmed attraction, venue and event names in that
// order, skipping blanks and exact duplicates, capped at MaxSuggestions.
func MergeSuggestions(resp *SuggestResponse) []string {
	out := make([]string, 0, MaxSuggestions)
	if resp == nil || resp.Embedded == nil {
		return out
	}

	seen := make(map[string]struct{})
	for _, group := range [][]Named{resp.Embedded.Attractions, resp.Embedded.Venues, resp.Embedded.Events} {
		for _, n := range group {
			name := strings.TrimSpace(n.Name)
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// firstImage returns the first image with a non-empty url.
func firstImage(images []Image) string {
	for _, img := range images {
		if img.URL != "" {
			return img.URL
		}
	}
	return ""
}
