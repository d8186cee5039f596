package api

import (
	"context"

	"github.com/eventscope/eventscope-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Events    *service.EventService
	Artists   *service.ArtistService
	Favorites *service.FavoriteService
	Locations *service.LocationService
}

// StorePinger is the favorites store as seen by the health check.
type StorePinger interface {
	Ping(ctx context.Context) error
	Backend() string
}

// IndexCounter is the search index as seen by the health check.
type IndexCounter interface {
	DocumentCount() (uint64, error)
}
