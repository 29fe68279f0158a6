package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"bookfinder/internal/core/domain/models"
	"bookfinder/internal/core/domain/ports"
)

// sessionKey is the durable storage key owned exclusively by the Guard.
const sessionKey = "session"

// Guard owns the authentication session: it is the only component that reads
// or writes the persisted session, validates it on access and clears it on
// expiry or server-reported rejection.
type Guard struct {
	store ports.SnapshotStore
	now   func() time.Time

	mu      sync.Mutex
	session *models.Session
}

// NewGuard loads any persisted session from the store. Corrupt persisted data
// is treated as an absent session, never an error.
func NewGuard(store ports.SnapshotStore) *Guard {
	return newGuard(store, time.Now)
}

func newGuard(store ports.SnapshotStore, now func() time.Time) *Guard {
	g := &Guard{store: store, now: now}

	raw, ok, err := store.Get(context.Background(), sessionKey)
	if err != nil || !ok {
		return g
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		log.Printf("WARNING guard: discarding unreadable persisted session: %v", err)
		return g
	}
	g.session = &sess
	return g
}

// Establish stores a freshly issued session and persists it.
func (g *Guard) Establish(token string, expiresAt time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	sess := models.Session{Token: token, ExpiresAt: expiresAt}
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := g.store.Put(context.Background(), sessionKey, raw); err != nil {
		return err
	}
	g.session = &sess
	return nil
}

// CurrentValid reports whether a usable session exists. Detecting a stale
// session clears it, in memory and in durable storage, so stale state cannot
// linger for a later caller.
func (g *Guard) CurrentValid() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.session == nil {
		return false
	}
	if g.session.Valid(g.now()) {
		return true
	}

	g.clearLocked()
	return false
}

// Token returns the current token, or an empty string when no session is
// stored. It does not validate; the remote service is the authority on token
// validity once a request is in flight.
func (g *Guard) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.session == nil {
		return ""
	}
	return g.session.Token
}

// Invalidate clears the session regardless of prior state. Idempotent.
func (g *Guard) Invalidate() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.clearLocked()
	return nil
}

func (g *Guard) clearLocked() {
	g.session = nil
	if err := g.store.Delete(context.Background(), sessionKey); err != nil {
		log.Printf("WARNING guard: failed to clear persisted session: %v", err)
	}
}
