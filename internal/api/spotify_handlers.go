package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/eventscope/eventscope-server/internal/domain"
	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
)

func (s *Server) registerSpotifyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "spotifyToken",
		Method:      http.MethodGet,
		Path:        "/api/events/spotify/token",
		Summary:     "Spotify app token",
		Description: "Returns a client-credentials access token, cached until shortly before it expires",
		Tags:        []string{"Spotify"},
	}, s.handleSpotifyToken)

	huma.Register(s.api, huma.Operation{
		OperationID: "spotifyArtist",
		Method:      http.MethodGet,
		Path:        "/api/events/spotify/artist",
		Summary:     "Spotify artist",
		Description: "Returns the best matching Spotify artist with up to eight albums",
		Tags:        []string{"Spotify"},
	}, s.handleSpotifyArtist)
}

// === DTOs ===

// SpotifyTokenResponse contains the app access token.
type SpotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
}

// SpotifyTokenOutput wraps the token response for Huma.
type SpotifyTokenOutput struct {
	Body SpotifyTokenResponse
}

// SpotifyArtistInput contains the artist name to look up.
type SpotifyArtistInput struct {
	Name string `query:"name" doc:"Artist name"`
}

// SpotifyArtistOutput contains the artist and albums.
type SpotifyArtistOutput struct {
	Body *domain.SpotifyArtistResponse
}

// === Handlers ===

func (s *Server) handleSpotifyToken(ctx context.Context, _ *struct{}) (*SpotifyTokenOutput, error) {
	token, err := s.services.Artists.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return &SpotifyTokenOutput{Body: SpotifyTokenResponse{AccessToken: token}}, nil
}

func (s *Server) handleSpotifyArtist(ctx context.Context, input *SpotifyArtistInput) (*SpotifyArtistOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"name": "is required"})
	}

	resp, err := s.services.Artists.GetArtist(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if resp.Artist == nil {
		return nil, domainerrors.NotFoundf("no Spotify artist matches %q", strings.TrimSpace(input.Name))
	}
	return &SpotifyArtistOutput{Body: resp}, nil
}
