package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/eventscope/eventscope-server/internal/domain"
	"github.com/eventscope/eventscope-server/internal/logger"
	"github.com/eventscope/eventscope-server/internal/spotify"
)

// ArtistProvider is the Spotify surface used by ArtistService.
type ArtistProvider interface {
	AccessToken(ctx context.Context) (string, error)
	SearchArtist(ctx context.Context, name string) (*spotify.RawArtist, error)
	ArtistAlbums(ctx context.Context, artistID string) ([]spotify.RawAlbum, error)
}

// ArtistService aggregates a Spotify artist profile with their albums.
type ArtistService struct {
	spotify ArtistProvider
	logger  *slog.Logger
}

// NewArtistService creates a new artist service.
func NewArtistService(provider ArtistProvider, logger *slog.Logger) *ArtistService {
	return &ArtistService{spotify: provider, logger: logger}
}

// AccessToken returns the cached app token, refreshing it when expired.
func (s *ArtistService) AccessToken(ctx context.Context) (string, error) {
	token, err := s.spotify.AccessToken(ctx)
	if err != nil {
		return "", spotifyError(err)
	}
	return token, nil
}

// GetArtist looks up the best matching artist and up to eight of their
// albums. A blank name or no match yields a nil artist with no albums; an
// albums failure is logged and yields the artist with no albums.
func (s *ArtistService) GetArtist(ctx context.Context, name string) (*domain.SpotifyArtistResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.EmptyArtistResponse(), nil
	}

	raw, err := s.spotify.SearchArtist(ctx, name)
	if err != nil {
		return nil, spotifyError(err)
	}
	if raw == nil || raw.ID == "" {
		logger.FromContext(ctx, s.logger).Debug("no spotify artist matched", "name", name)
		return domain.EmptyArtistResponse(), nil
	}

	artist := spotify.ToArtistInfo(*raw)
	resp := &domain.SpotifyArtistResponse{
		Artist: &artist,
		Albums: []domain.SpotifyAlbumInfo{},
	}

	items, err := s.spotify.ArtistAlbums(ctx, raw.ID)
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("spotify albums lookup failed, returning artist without albums",
			"artist_id", raw.ID,
			"status", spotify.StatusOf(err),
			"error", err,
		)
		return resp, nil
	}

	albums := spotify.NormalizeAlbums(items)
	if len(albums) > domain.MaxArtistAlbums {
		albums = albums[:domain.MaxArtistAlbums]
	}
	resp.Albums = albums
	return resp, nil
}
