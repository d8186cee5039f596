package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/eventscope/eventscope-server/internal/config"
	"github.com/eventscope/eventscope-server/internal/logger"
	"github.com/eventscope/eventscope-server/internal/store"
	"github.com/eventscope/eventscope-server/internal/store/sqlite"
)

// StoreHandle wraps the favorites store with shutdown capability.
type StoreHandle struct {
	store.FavoriteStore
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the favorites store selected by configuration.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := OpenStore(cfg.Store, log)
	if err != nil {
		return nil, err
	}
	return &StoreHandle{FavoriteStore: st}, nil
}

// OpenStore opens the badger or sqlite favorites store. It is shared with
// the CLI, which opens the store without the container.
func OpenStore(cfg config.StoreConfig, log *logger.Logger) (store.FavoriteStore, error) {
	switch cfg.Backend {
	case config.StoreSQLite:
		path := cfg.SQLitePath()
		st, err := sqlite.Open(path, log.Logger)
		if err != nil {
			return nil, err
		}
		log.WithFields(map[string]any{"backend": cfg.Backend, "path": path}).Info("Database initialized")
		return st, nil
	case config.StoreBadger, "":
		path := cfg.BadgerPath()
		st, err := store.New(path, log.Logger)
		if err != nil {
			return nil, err
		}
		log.WithFields(map[string]any{"backend": config.StoreBadger, "path": path}).Info("Database initialized")
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
