package models

import "time"

// PlaceholderThumbnail is used when a search result carries no usable cover image.
const PlaceholderThumbnail = "https://via.placeholder.com/150x200/6c757d/ffffff?text=No+Image"

// Session holds the authenticated user's token and its expiry.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the session can still be used at the given instant.
func (s Session) Valid(now time.Time) bool {
	return s.Token != "" && now.Before(s.ExpiresAt)
}

// BookSummary is the canonical, display-ready form of one search result.
// Identity is the ID alone: two summaries with equal IDs are the same book
// even when the provider returns differing metadata on repeated queries.
type BookSummary struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	PublishedYear *int     `json:"published_year,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	Description   string   `json:"description,omitempty"`
	ThumbnailURL  string   `json:"thumbnail_url"`
}

// SearchResultPage is the outcome of one search. A new search replaces the
// previous page; pages are never persisted.
type SearchResultPage struct {
	Query    string        `json:"query"`
	Items    []BookSummary `json:"items"`
	LoadedAt time.Time     `json:"loaded_at"`
}
