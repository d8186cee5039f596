package providers

import (
	"github.com/samber/do/v2"

	"github.com/eventscope/eventscope-server/internal/config"
	"github.com/eventscope/eventscope-server/internal/geo"
	"github.com/eventscope/eventscope-server/internal/logger"
	"github.com/eventscope/eventscope-server/internal/spotify"
	"github.com/eventscope/eventscope-server/internal/ticketmaster"
)

// TicketmasterClientHandle wraps the Discovery API client with Shutdownable.
type TicketmasterClientHandle struct {
	*ticketmaster.Client
}

// Shutdown implements do.Shutdownable.
func (h *TicketmasterClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideTicketmasterClient provides the Ticketmaster Discovery API client.
func ProvideTicketmasterClient(i do.Injector) (*TicketmasterClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := ticketmaster.New(ticketmaster.Config{
		APIKey:  cfg.Ticketmaster.APIKey,
		BaseURL: cfg.Ticketmaster.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, log.Logger)

	return &TicketmasterClientHandle{Client: client}, nil
}

// SpotifyClientHandle wraps the Spotify client with Shutdownable.
type SpotifyClientHandle struct {
	*spotify.Client
}

// Shutdown implements do.Shutdownable.
func (h *SpotifyClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideSpotifyClient provides the Spotify Web API client and its token cache.
func ProvideSpotifyClient(i do.Injector) (*SpotifyClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := spotify.New(spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		TokenURL:     cfg.Spotify.TokenURL,
		APIURL:       cfg.Spotify.APIURL,
		Market:       cfg.Spotify.Market,
		Timeout:      cfg.Upstream.Timeout,
	}, log.Logger)

	return &SpotifyClientHandle{Client: client}, nil
}

// GeoClientHandle wraps the location client with Shutdownable.
type GeoClientHandle struct {
	*geo.Client
}

// Shutdown implements do.Shutdownable.
func (h *GeoClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideGeoClient provides the geocoding and IP lookup client.
func ProvideGeoClient(i do.Injector) (*GeoClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := geo.New(geo.Config{
		GeocodingAPIKey: cfg.Geo.GeocodingAPIKey,
		GeocodingURL:    cfg.Geo.GeocodingURL,
		IPInfoToken:     cfg.Geo.IPInfoToken,
		IPInfoURL:       cfg.Geo.IPInfoURL,
		Timeout:         cfg.Upstream.Timeout,
	}, log.Logger)

	return &GeoClientHandle{Client: client}, nil
}
