package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"bookfinder/internal/core/domain/models"
	"bookfinder/internal/core/domain/ports"
)

// SearchState is the observable lifecycle of a search session.
type SearchState int

const (
	StateIdle SearchState = iota
	StateSearching
	StateSucceeded
	StateFailed
)

func (s SearchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SearchSession orchestrates one query at a time against a BookSource and
// exposes explicit state transitions to the presentation layer. A new Submit
// supersedes any outstanding one: only the most recently issued query may
// publish its result (last-resolved-wins), stale results are discarded.
type SearchSession struct {
	source       ports.BookSource
	defaultQuery string
	onChange     func(SearchState)

	mu      sync.Mutex
	gen     uint64
	state   SearchState
	page    models.SearchResultPage
	lastErr error
}

func NewSearchSession(source ports.BookSource, defaultQuery string) *SearchSession {
	return &SearchSession{
		source:       source,
		defaultQuery: defaultQuery,
		state:        StateIdle,
	}
}

// OnStateChange registers a callback invoked after every state transition.
// This replaces implicit re-render triggers: the presentation layer observes
// transitions instead of being mutated by the core.
func (s *SearchSession) OnStateChange(fn func(SearchState)) {
	s.onChange = fn
}

// Submit runs a search. A blank query falls back to the configured default so
// the landing result set is never empty by construction.
//
// Transport failures and empty result sets are folded into the Failed state;
// only auth failures are returned, unchanged, for the session lifecycle to
// handle (the caller must redirect to login, no retry).
func (s *SearchSession) Submit(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		query = s.defaultQuery
	}

	s.mu.Lock()
	s.gen++
	myGen := s.gen
	s.state = StateSearching
	s.mu.Unlock()
	s.notify(StateSearching)

	books, err := s.source.Search(ctx, query)

	s.mu.Lock()
	if s.gen != myGen {
		// A newer submit started while this one was in flight.
		s.mu.Unlock()
		return nil
	}

	var state SearchState
	switch {
	case err != nil:
		var authErr *ports.AuthError
		if errors.As(err, &authErr) {
			s.state = StateIdle
			s.page = models.SearchResultPage{}
			s.lastErr = err
			s.mu.Unlock()
			s.notify(StateIdle)
			return err
		}
		state = StateFailed
		s.page = models.SearchResultPage{Query: query, LoadedAt: time.Now()}
		s.lastErr = err
	case len(books) == 0:
		state = StateFailed
		s.page = models.SearchResultPage{Query: query, LoadedAt: time.Now()}
		s.lastErr = ports.ErrNoResults
	default:
		state = StateSucceeded
		s.page = models.SearchResultPage{Query: query, Items: books, LoadedAt: time.Now()}
		s.lastErr = nil
	}
	s.state = state
	s.mu.Unlock()
	s.notify(state)
	return nil
}

// State returns the current lifecycle state.
func (s *SearchSession) State() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Page returns the most recently retained result page.
func (s *SearchSession) Page() models.SearchResultPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Err returns the failure behind a Failed state: ports.ErrNoResults for an
// empty result set, or the transport error to surface for display.
func (s *SearchSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *SearchSession) notify(state SearchState) {
	if s.onChange != nil {
		s.onChange(state)
	}
}
