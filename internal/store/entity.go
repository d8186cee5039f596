package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"

	"github.com/dgraph-io/badger/v4"
)

// maxTxnAttempts bounds retries of a read-modify-write transaction that lost
// an optimistic-concurrency race.
const maxTxnAttempts = 8

// Entity provides generic keyed persistence for any domain type.
type Entity[T any] struct {
	store  *Store
	prefix string
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:  s,
		prefix: prefix,
	}
}

func (e *Entity[T]) key(id string) []byte {
	return []byte(e.prefix + id)
}

// Get retrieves an entity by ID.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entity *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		var err error
		entity, err = e.read(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrNotFound
	}
	return entity, nil
}

// Mutate runs a read-modify-write of one entity in a single transaction.
// fn receives the current value (nil when absent) and returns the value to
// store. Conflicting concurrent writers are retried, so fn may run more than
// once and must not have side effects.
func (e *Entity[T]) Mutate(ctx context.Context, id string, fn func(existing *T) (*T, error)) (*T, error) {
	var result *T
	err := e.store.update(ctx, func(txn *badger.Txn) error {
		existing, err := e.read(txn, id)
		if err != nil {
			return err
		}

		next, err := fn(existing)
		if err != nil {
			return err
		}

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal entity: %w", err)
		}
		if err := txn.Set(e.key(id), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Take deletes an entity and returns what was stored, or nil when nothing was.
func (e *Entity[T]) Take(ctx context.Context, id string) (*T, error) {
	var removed *T
	err := e.store.update(ctx, func(txn *badger.Txn) error {
		existing, err := e.read(txn, id)
		if err != nil || existing == nil {
			removed = nil
			return err
		}
		if err := txn.Delete(e.key(id)); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}
		removed = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// List returns an iterator over all entities in key order.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		_ = e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return err
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})
				if err != nil {
					err = fmt.Errorf("failed to unmarshal entity %s: %w", it.Item().Key(), err)
					yield(nil, err)
					return err
				}

				if !yield(&entity, nil) {
					return nil
				}
			}
			return nil
		})
	}
}

// Count returns the number of stored entities.
func (e *Entity[T]) Count(ctx context.Context) (int, error) {
	n := 0
	err := e.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(e.prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}

// read loads id inside txn, returning nil when it does not exist.
func (e *Entity[T]) read(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get(e.key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	var entity T
	err = item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, &entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}
