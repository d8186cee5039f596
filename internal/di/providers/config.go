// Package providers contains dependency injection providers for the EventScope server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/eventscope/eventscope-server/internal/config"
	"github.com/eventscope/eventscope-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting EventScope server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"store_backend", cfg.Store.Backend,
		"data_path", cfg.Store.DataPath,
	)

	// Missing credentials are reported per request; warn once at startup too.
	if cfg.Ticketmaster.APIKey == "" {
		log.Warn("Ticketmaster API key is not set; event routes will fail")
	}
	if cfg.Spotify.ClientID == "" || cfg.Spotify.ClientSecret == "" {
		log.Warn("Spotify client credentials are not set; artist routes will fail")
	}

	return log, nil
}
