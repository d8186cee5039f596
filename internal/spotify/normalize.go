package spotify

import (
	"strings"

	"github.com/eventscope/eventscope-server/internal/domain"
)

// ToArtistInfo maps a raw artist.
func ToArtistInfo(raw RawArtist) domain.SpotifyArtistInfo {
	genres := raw.Genres
	if genres == nil {
		genres = []string{}
	}
	info := domain.SpotifyArtistInfo{
		ID:         raw.ID,
		Name:       raw.Name,
		Followers:  raw.Followers.Total,
		Popularity: raw.Popularity,
		Genres:     genres,
		SpotifyURL: raw.ExternalURLs.Spotify,
	}
	if len(raw.Images) > 0 {
		info.Image = raw.Images[0].URL
	}
	return info
}

// NormalizeAlbums drops nameless albums and keeps the first album for each
// case-insensitive name, preserving order.
func NormalizeAlbums(items []RawAlbum) []domain.SpotifyAlbumInfo {
	albums := make([]domain.SpotifyAlbumInfo, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for i := range items {
		raw := &items[i]
		if raw.Name == "" {
			continue
		}
		key := strings.ToLower(raw.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		album := domain.SpotifyAlbumInfo{
			ID:          raw.ID,
			Name:        raw.Name,
			ReleaseDate: raw.ReleaseDate,
			TotalTracks: raw.TotalTracks,
			SpotifyURL:  raw.ExternalURLs.Spotify,
		}
		if len(raw.Images) > 0 {
			album.Image = raw.Images[0].URL
		}
		albums = append(albums, album)
	}
	return albums
}
