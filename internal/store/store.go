package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/eventscope/eventscope-server/internal/domain"
)

const favoritePrefix = "favorite:"

// Store is the Badger-backed favorites store.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	favorites *Entity[domain.Favorite]
}

var _ FavoriteStore = (*Store)(nil)

// New opens (or creates) a Badger database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // A favorite acknowledged to the client must survive a crash
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	return open(opts, logger)
}

// NewInMemory opens a Badger database that lives only in memory.
func NewInMemory(logger *slog.Logger) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil), logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}
	s.favorites = NewEntity[domain.Favorite](s, favoritePrefix)

	if logger != nil {
		logger.Info("Badger database opened", "path", opts.Dir, "in_memory", opts.InMemory)
	}
	return s, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// Backend names the storage engine.
func (s *Store) Backend() string { return "badger" }

// Ping verifies the database accepts read transactions.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// update runs fn in a read-write transaction, retrying on optimistic conflicts.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for range maxTxnAttempts {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return ErrTxnConflict
}
