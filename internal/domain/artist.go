package domain

// MaxArtistAlbums caps the albums returned with an artist.
const MaxArtistAlbums = 8

// SpotifyArtistInfo is the artist profile shown on the artist tab.
type SpotifyArtistInfo struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Followers  int      `json:"followers"`
	Popularity int      `json:"popularity" minimum:"0" maximum:"100"`
	Genres     []string `json:"genres"`
	SpotifyURL string   `json:"spotifyUrl,omitempty"`
	Image      string   `json:"image,omitempty"`
}

// SpotifyAlbumInfo is one album of an artist.
type SpotifyAlbumInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	TotalTracks *int   `json:"totalTracks,omitempty"`
	SpotifyURL  string `json:"spotifyUrl,omitempty"`
	Image       string `json:"image,omitempty"`
}

// SpotifyArtistResponse combines an artist with their albums.
// Artist is nil when no artist matched.
type SpotifyArtistResponse struct {
	Artist *SpotifyArtistInfo `json:"artist"`
	Albums []SpotifyAlbumInfo `json:"albums"`
}

// EmptyArtistResponse is the "no artist" answer: null artist, empty albums.
func EmptyArtistResponse() *SpotifyArtistResponse {
	return &SpotifyArtistResponse{Albums: []SpotifyAlbumInfo{}}
}
