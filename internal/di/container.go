// Package di provides dependency injection configuration for the EventScope server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/eventscope/eventscope-server/internal/config"
	"github.com/eventscope/eventscope-server/internal/di/providers"
	"github.com/eventscope/eventscope-server/internal/logger"
	"github.com/eventscope/eventscope-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Upstream clients
	do.Provide(injector, providers.ProvideTicketmasterClient)
	do.Provide(injector, providers.ProvideSpotifyClient)
	do.Provide(injector, providers.ProvideGeoClient)

	// Business services
	do.Provide(injector, providers.ProvideEventService)
	do.Provide(injector, providers.ProvideArtistService)
	do.Provide(injector, providers.ProvideFavoriteService)
	do.Provide(injector, providers.ProvideLocationService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services, which starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*providers.TicketmasterClientHandle](injector)
	_ = do.MustInvoke[*providers.SpotifyClientHandle](injector)
	_ = do.MustInvoke[*providers.GeoClientHandle](injector)

	_ = do.MustInvoke[*service.EventService](injector)
	_ = do.MustInvoke[*service.ArtistService](injector)
	_ = do.MustInvoke[*service.FavoriteService](injector)
	_ = do.MustInvoke[*service.LocationService](injector)

	providers.SyncSearchIndex(injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	return nil
}
