package spotify

// Web API payloads. Only the fields the artist tab needs are decoded.

// SearchResponse is the body of /search?type=artist.
type SearchResponse struct {
	Artists *struct {
		Items []RawArtist `json:"items"`
	} `json:"artists"`
}

// RawArtist is a full artist object.
type RawArtist struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Followers struct {
		Total int `json:"total"`
	} `json:"followers"`
	Popularity   int          `json:"popularity"`
	Genres       []string     `json:"genres"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Images       []Image      `json:"images"`
}

// AlbumsResponse is the body of /artists/{id}/albums.
type AlbumsResponse struct {
	Items []RawAlbum `json:"items"`
}

// RawAlbum is a simplified album object.
type RawAlbum struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ReleaseDate  string       `json:"release_date"`
	TotalTracks  *int         `json:"total_tracks"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Images       []Image      `json:"images"`
}

// ExternalURLs holds the open.spotify.com link.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// Image is a Spotify image reference. The API orders images largest first.
type Image struct {
	URL string `json:"url"`
}
