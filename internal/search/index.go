package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/eventscope/eventscope-server/internal/domain"
)

// Index wraps a Bleve index of saved favorites.
//
// All public methods are safe for concurrent use. The mutex guards the
// underlying index handle, which Reindex swaps out.
type Index struct {
	index  bleve.Index
	path   string // empty for memory-only indexes
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage; empty keeps the index in memory
	Logger   *slog.Logger // Uses discard if nil
}

// mappingVersion is bumped whenever buildIndexMapping changes, forcing a
// rebuild of on-disk indexes at startup.
const mappingVersion = "1"

// New creates or opens a favorites index. An on-disk index whose mapping
// version is missing or stale, or which fails to open, is removed and
// recreated empty; callers repopulate it with Reindex.
func New(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if opts.DataPath == "" {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create memory index: %w", err)
		}
		return &Index{index: index, logger: logger}, nil
	}

	if err := os.MkdirAll(opts.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	indexPath := filepath.Join(opts.DataPath, "favorites.bleve")
	versionPath := filepath.Join(opts.DataPath, "favorites.version")

	var index bleve.Index
	needsRebuild := false

	if _, statErr := os.Stat(indexPath); statErr == nil {
		existingVersion, readErr := os.ReadFile(versionPath)
		switch {
		case readErr != nil:
			logger.Info("search index has no version file, will rebuild", "new_version", mappingVersion)
			needsRebuild = true
		case string(existingVersion) != mappingVersion:
			logger.Info("search index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		default:
			var err error
			index, err = bleve.Open(indexPath)
			if err != nil {
				logger.Warn("failed to open existing index, will recreate", "path", indexPath, "error", err)
				needsRebuild = true
			}
		}
	}

	if needsRebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
	}

	if index == nil {
		var err error
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); writeErr != nil {
			logger.Warn("failed to write search version file", "error", writeErr)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &Index{index: index, path: indexPath, logger: logger}, nil
}

// Close closes the index and releases resources.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexFavorite adds or replaces the document for f.
func (s *Index) IndexFavorite(f *domain.Favorite) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := NewFavoriteDocument(f)
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexFavorites indexes favorites in batches of 500.
func (s *Index) IndexFavorites(favorites []*domain.Favorite) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexBatch(s.index, favorites)
}

func indexBatch(index bleve.Index, favorites []*domain.Favorite) error {
	const batchSize = 500

	for i := 0; i < len(favorites); i += batchSize {
		end := min(i+batchSize, len(favorites))

		batch := index.NewBatch()
		for _, f := range favorites[i:end] {
			doc := NewFavoriteDocument(f)
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// DeleteFavorite removes the document for eventID. Deleting an unknown id is
// not an error.
func (s *Index) DeleteFavorite(eventID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(eventID)
}

// DocumentCount returns the number of indexed favorites.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Reindex drops the index and rebuilds it from favorites. Searches block
// until the rebuild completes.
func (s *Index) Reindex(favorites []*domain.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	var (
		index bleve.Index
		err   error
	)
	if s.path == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if err := os.RemoveAll(s.path); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
		index, err = bleve.New(s.path, buildIndexMapping())
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	s.index = index

	if err := indexBatch(index, favorites); err != nil {
		return err
	}

	s.logger.Info("rebuilt search index", "path", s.path, "documents", len(favorites))
	return nil
}
