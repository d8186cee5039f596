package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/eventscope/eventscope-server/internal/config"
	"github.com/eventscope/eventscope-server/internal/logger"
	"github.com/eventscope/eventscope-server/internal/search"
	"github.com/eventscope/eventscope-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve favorites index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.New(search.Options{
		DataPath: cfg.Store.DataPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// SyncSearchIndex rebuilds the index from the store in the background when
// their sizes disagree, e.g. after a mapping version bump or a crash between
// a store write and its index update.
func SyncSearchIndex(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	favorites := do.MustInvoke[*service.FavoriteService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx := context.Background()
	favs, err := storeHandle.List(ctx)
	if err != nil {
		log.WithError(err).Warn("Skipping search index sync")
		return
	}
	docCount, _ := indexHandle.DocumentCount()
	if docCount == uint64(len(favs)) {
		return
	}

	log.Info("Search index out of sync with store, reindexing",
		"documents", docCount,
		"favorites", len(favs),
	)

	go func() {
		if err := favorites.SyncIndex(context.Background()); err != nil {
			log.WithError(err).Error("Search reindex failed")
			return
		}
		count, _ := indexHandle.DocumentCount()
		log.Info("Search reindex completed", "documents", count)
	}()
}
