// Package main inspects a Badger favorites database without modifying it.
//
// Usage:
//
//	DB_PATH=~/EventScope/data/db go run ./cmd/dbinspect
//	go run ./cmd/dbinspect -genre Music -show 20
package main

import (
	"encoding/json/v2"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/eventscope/eventscope-server/internal/domain"
)

const favoritePrefix = "favorite:"

var (
	genreFilter = flag.String("genre", "", "Only list favorites whose genre matches (case-insensitive)")
	showCount   = flag.Int("show", 5, "Number of favorites to print")
)

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/EventScope/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Favorites Inspection ===")
	fmt.Println()

	var (
		favorites []domain.Favorite
		malformed []string
		genres    = map[string]int{}
	)

	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(favoritePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(val []byte) error {
				var fav domain.Favorite
				if err := json.Unmarshal(val, &fav); err != nil {
					return err
				}
				if strings.TrimPrefix(key, favoritePrefix) != fav.EventID {
					return fmt.Errorf("key does not match event id %q", fav.EventID)
				}

				genre := fav.Genre
				if genre == "" {
					genre = "(none)"
				}
				genres[genre]++

				if *genreFilter == "" || strings.EqualFold(fav.Genre, *genreFilter) {
					favorites = append(favorites, fav)
				}
				return nil
			})
			if err != nil {
				malformed = append(malformed, key)
				log.Printf("Error reading favorite %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].CreatedAt.Before(favorites[j].CreatedAt)
	})

	for i, fav := range favorites {
		if i >= *showCount {
			fmt.Printf("... and %d more favorites\n\n", len(favorites)-*showCount)
			break
		}
		fmt.Printf("Favorite: %s\n", fav.Name)
		fmt.Printf("  Event ID: %s\n", fav.EventID)
		fmt.Printf("  Record ID: %s\n", fav.RecordID)
		if fav.Date != "" {
			fmt.Printf("  When: %s %s\n", fav.Date, fav.Time)
		}
		if fav.Venue != "" {
			fmt.Printf("  Venue: %s\n", fav.Venue)
		}
		fmt.Printf("  Saved: %s\n", fav.CreatedAt.UTC().Format(domain.TimestampLayout))
		fmt.Println()
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Favorites listed: %d\n", len(favorites))
	fmt.Printf("Malformed records: %d\n", len(malformed))
	if len(favorites) > 0 {
		fmt.Printf("Oldest: %s (%s)\n", favorites[0].Name, favorites[0].CreatedAt.UTC().Format(domain.TimestampLayout))
		last := favorites[len(favorites)-1]
		fmt.Printf("Newest: %s (%s)\n", last.Name, last.CreatedAt.UTC().Format(domain.TimestampLayout))
	}

	names := make([]string, 0, len(genres))
	for g := range genres {
		names = append(names, g)
	}
	sort.Strings(names)
	fmt.Println("By genre:")
	for _, g := range names {
		fmt.Printf("  %s: %d\n", g, genres[g])
	}
}
