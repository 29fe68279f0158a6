// Package normalizer converts the search API's loosely-specified response
// payloads into the canonical BookSummary model. The upstream envelope shape
// is not guaranteed: a bare array, {"items": [...]} and {"data": [...]} have
// all been observed in the wild, and individual records may be missing any
// optional field. Normalize therefore never fails; malformed input degrades
// to defaults or an empty result.
package normalizer

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"bookfinder/internal/core/domain/models"
)

// Normalize projects a raw search payload into an ordered sequence of
// BookSummary. It is total and deterministic: identical input always yields
// identical output, and no input shape causes an error.
func Normalize(raw []byte) []models.BookSummary {
	items, ok := extractItems(raw)
	if !ok {
		log.Printf("WARNING normalizer: unrecognized search payload shape, treating as empty")
		return []models.BookSummary{}
	}

	books := make([]models.BookSummary, 0, len(items))
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			// Not inspectable as a record; nothing to salvage.
			continue
		}
		books = append(books, projectRecord(record))
	}
	return books
}

// extractItems sniffs the response envelope. Recognized shapes, in order:
// a bare array, {"items": [...]}, {"data": [...]}.
func extractItems(raw []byte) ([]any, bool) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}

	switch v := payload.(type) {
	case []any:
		return v, true
	case map[string]any:
		if items, ok := v["items"].([]any); ok {
			return items, true
		}
		if data, ok := v["data"].([]any); ok {
			return data, true
		}
	}
	return nil, false
}

func projectRecord(record map[string]any) models.BookSummary {
	book := models.BookSummary{
		ID:    asString(record["id"]),
		Title: "Untitled",
	}

	volume, _ := record["volumeInfo"].(map[string]any)

	if title := asString(volume["title"]); title != "" {
		book.Title = title
	}
	book.Authors = asStringSlice(volume["authors"])
	book.Description = asString(volume["description"])
	book.PublishedYear = parseYear(asString(volume["publishedDate"]))
	if rating, ok := asFloat(volume["averageRating"]); ok {
		book.AverageRating = &rating
	}
	book.ThumbnailURL = resolveThumbnail(volume)

	return book
}

// resolveThumbnail picks thumbnail, then smallThumbnail, then the fixed
// placeholder, and upgrades http to https to avoid mixed content.
func resolveThumbnail(volume map[string]any) string {
	links, _ := volume["imageLinks"].(map[string]any)

	url := asString(links["thumbnail"])
	if url == "" {
		url = asString(links["smallThumbnail"])
	}
	if url == "" {
		return models.PlaceholderThumbnail
	}
	if strings.HasPrefix(url, "http://") {
		url = "https://" + strings.TrimPrefix(url, "http://")
	}
	return url
}

// parseYear extracts the year from provider dates like "1965-08-01", "1965-08"
// or "1965". Anything unparseable yields nil.
func parseYear(date string) *int {
	if date == "" {
		return nil
	}
	head := date
	if idx := strings.IndexByte(date, '-'); idx > 0 {
		head = date[:idx]
	}
	year, err := strconv.Atoi(head)
	if err != nil {
		return nil
	}
	return &year
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// Some providers return numeric identifiers.
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func asStringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func asFloat(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
