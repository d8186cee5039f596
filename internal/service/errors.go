package service

import (
	"errors"

	domainerrors "github.com/eventscope/eventscope-server/internal/errors"
	"github.com/eventscope/eventscope-server/internal/geo"
	"github.com/eventscope/eventscope-server/internal/spotify"
	"github.com/eventscope/eventscope-server/internal/ticketmaster"
)

// Provider names used in upstream error messages.
const (
	providerTicketmaster = "Ticketmaster"
	providerSpotify      = "Spotify"
	providerGoogle       = "Google Geocoding"
	providerIPInfo       = "IPinfo"
)

// ticketmasterError translates a Discovery API client error into a domain error.
// Only a detail lookup can be NotFound; search and suggest failures are upstream errors.
func ticketmasterError(err error) error {
	switch {
	case errors.Is(err, ticketmaster.ErrNotConfigured):
		return domainerrors.Configuration("Ticketmaster API key is missing").WithCause(err)
	case errors.Is(err, ticketmaster.ErrNotFound) && isDetailLookup(err):
		return domainerrors.NotFound("event not found").WithCause(err)
	default:
		return domainerrors.Upstream(providerTicketmaster, ticketmaster.StatusOf(err), err)
	}
}

func isDetailLookup(err error) bool {
	var terr *ticketmaster.Error
	return errors.As(err, &terr) && terr.Op == "detail"
}

func spotifyError(err error) error {
	if errors.Is(err, spotify.ErrNotConfigured) {
		return domainerrors.Configuration("Spotify client credentials are missing").WithCause(err)
	}
	return domainerrors.Upstream(providerSpotify, spotify.StatusOf(err), err)
}

func geoError(err error) error {
	var gerr *geo.Error
	provider := providerGoogle
	if errors.As(err, &gerr) && gerr.Provider == "ipinfo" {
		provider = providerIPInfo
	}

	switch {
	case errors.Is(err, geo.ErrNotConfigured):
		return domainerrors.Configuration("geocoding API key is missing").WithCause(err)
	case errors.Is(err, geo.ErrNoResults):
		return domainerrors.NotFound("location not found").WithCause(err)
	default:
		return domainerrors.Upstream(provider, geo.StatusOf(err), err)
	}
}
