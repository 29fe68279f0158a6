package source

import (
	"context"
	"net/http"
	"net/url"

	"bookfinder/internal/core/domain/models"
	"bookfinder/internal/core/domain/ports"
	"bookfinder/internal/core/normalizer"
)

// Ensure APISource implements the BookSource port
var _ ports.BookSource = (*APISource)(nil)

// APISource queries the remote book-search API through the gateway and
// normalizes whatever envelope shape comes back.
type APISource struct {
	gw ports.Gateway
}

func NewAPISource(gw ports.Gateway) *APISource {
	return &APISource{gw: gw}
}

func (s *APISource) Search(ctx context.Context, query string) ([]models.BookSummary, error) {
	path := "/api/search?query=" + url.QueryEscape(query)

	payload, err := s.gw.Call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	return normalizer.Normalize(payload), nil
}
