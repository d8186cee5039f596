package providers

import (
	"github.com/samber/do/v2"

	"github.com/eventscope/eventscope-server/internal/logger"
	"github.com/eventscope/eventscope-server/internal/service"
)

// ProvideEventService provides the event search service.
func ProvideEventService(i do.Injector) (*service.EventService, error) {
	client := do.MustInvoke[*TicketmasterClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewEventService(client.Client, log.Logger), nil
}

// ProvideArtistService provides the Spotify artist service.
func ProvideArtistService(i do.Injector) (*service.ArtistService, error) {
	client := do.MustInvoke[*SpotifyClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewArtistService(client.Client, log.Logger), nil
}

// ProvideFavoriteService provides the favorites service, indexed by Bleve.
func ProvideFavoriteService(i do.Injector) (*service.FavoriteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewFavoriteService(storeHandle.FavoriteStore, indexHandle.Index, log.Logger), nil
}

// ProvideLocationService provides the geocoding and IP lookup service.
func ProvideLocationService(i do.Injector) (*service.LocationService, error) {
	client := do.MustInvoke[*GeoClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewLocationService(client.Client, log.Logger), nil
}
