package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"bookfinder/internal/core/domain/models"
	"bookfinder/internal/core/domain/ports"
)

// favoritesKey is the durable storage key owned exclusively by Favorites.
// It is deliberately separate from the session key: favorites are user data
// and survive logout.
const favoritesKey = "favorites"

// Favorites is an ordered, deduplicated set of BookSummary keyed by book ID,
// mirrored to durable storage as a whole snapshot on every mutation.
type Favorites struct {
	store ports.SnapshotStore

	mu    sync.Mutex
	books []models.BookSummary
}

// NewFavorites loads the persisted snapshot. A missing or unparseable
// snapshot yields an empty set, never an error.
func NewFavorites(store ports.SnapshotStore) *Favorites {
	f := &Favorites{store: store}

	raw, ok, err := store.Get(context.Background(), favoritesKey)
	if err != nil || !ok {
		return f
	}
	if err := json.Unmarshal(raw, &f.books); err != nil {
		log.Printf("WARNING favorites: discarding unreadable persisted snapshot: %v", err)
		f.books = nil
	}
	return f
}

// Add appends the book unless its ID is already present, then persists the
// full snapshot. Insertion order is preserved for display.
func (f *Favorites) Add(ctx context.Context, book models.BookSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.books {
		if b.ID == book.ID {
			return nil
		}
	}
	f.books = append(f.books, book)
	return f.persistLocked(ctx)
}

// Remove drops the book with the given ID if present and persists the
// snapshot. Removing an absent ID is a no-op.
func (f *Favorites) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, b := range f.books {
		if b.ID == id {
			f.books = append(f.books[:i], f.books[i+1:]...)
			return f.persistLocked(ctx)
		}
	}
	return nil
}

// Contains reports whether a book with the given ID is favorited.
func (f *Favorites) Contains(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.books {
		if b.ID == id {
			return true
		}
	}
	return false
}

// List returns a snapshot copy in insertion order. Mutating the returned
// slice does not affect the set.
func (f *Favorites) List() []models.BookSummary {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.BookSummary, len(f.books))
	copy(out, f.books)
	return out
}

func (f *Favorites) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(f.books)
	if err != nil {
		return err
	}
	return f.store.Put(ctx, favoritesKey, raw)
}
