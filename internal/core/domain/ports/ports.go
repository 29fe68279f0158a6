package ports

import (
	"bookfinder/internal/core/domain/models"
	"context"
	"errors"
	"fmt"
	"io"
)

// SnapshotStore persists whole-value snapshots under string keys. Missing or
// unreadable values are reported via the ok flag, never as fatal errors.
type SnapshotStore interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Gateway is the single outbound channel to the remote API. Implementations
// attach the current credential to every request and translate unauthorized
// responses into *AuthError.
type Gateway interface {
	Call(ctx context.Context, method, path string, body io.Reader) ([]byte, error)
}

// BookSource answers a free-text query with canonical book summaries.
type BookSource interface {
	Search(ctx context.Context, query string) ([]models.BookSummary, error)
}

// Credentials exposes the session token to the gateway and lets it force a
// logout when the server rejects the token.
type Credentials interface {
	Token() string
	Invalidate() error
}

// ErrNoResults marks a valid response that normalized to zero items. It is a
// data condition, distinct from transport and auth failures.
var ErrNoResults = errors.New("no books found")

// AuthError reports an unauthorized response. It is fatal to the current
// operation, forces logout and is never retried.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("unauthorized (status %d): session is no longer valid", e.Status)
}

// TransportError wraps a network or decoding failure. It is surfaced to the
// user and does not force logout; retry policy belongs to the caller.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
