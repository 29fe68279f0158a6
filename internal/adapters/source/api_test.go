package source

import (
	"context"
	"io"
	"testing"

	"bookfinder/internal/core/domain/ports"
)

// fakeGateway implements ports.Gateway
type fakeGateway struct {
	lastPath string
	payload  []byte
	err      error
}

func (f *fakeGateway) Call(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	f.lastPath = path
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func TestAPISource_Search(t *testing.T) {
	gw := &fakeGateway{payload: []byte(`{"items": [{"id": "42", "volumeInfo": {"title": "Dune"}}]}`)}
	src := NewAPISource(gw)

	books, err := src.Search(context.Background(), "dune")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("expected 1 book, got %d", len(books))
	}
	if books[0].ID != "42" || books[0].Title != "Dune" {
		t.Errorf("unexpected book: %+v", books[0])
	}
	if gw.lastPath != "/api/search?query=dune" {
		t.Errorf("unexpected path %q", gw.lastPath)
	}
}

func TestAPISource_QueryEscaped(t *testing.T) {
	gw := &fakeGateway{payload: []byte(`[]`)}
	src := NewAPISource(gw)

	if _, err := src.Search(context.Background(), "best sellers"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if gw.lastPath != "/api/search?query=best+sellers" {
		t.Errorf("expected escaped query, got %q", gw.lastPath)
	}
}

func TestAPISource_GatewayErrorPassesThrough(t *testing.T) {
	gw := &fakeGateway{err: &ports.AuthError{Status: 401}}
	src := NewAPISource(gw)

	_, err := src.Search(context.Background(), "dune")
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*ports.AuthError); !ok {
		t.Errorf("auth errors must pass through unchanged, got %T", err)
	}
}

func TestAPISource_UnrecognizedPayloadYieldsEmpty(t *testing.T) {
	gw := &fakeGateway{payload: []byte(`{}`)}
	src := NewAPISource(gw)

	books, err := src.Search(context.Background(), "dune")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("expected 0 books, got %d", len(books))
	}
}
