package source

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/atom"

	"bookfinder/internal/adapters/util"
	"bookfinder/internal/core/domain/models"
	"bookfinder/internal/core/domain/ports"
)

// Ensure OPDSSource implements the BookSource port
var _ ports.BookSource = (*OPDSSource)(nil)

// OPDSSource serves searches from an Atom/OPDS catalog instead of the JSON
// search API. Entries are matched against the query by title and author
// substring, case-insensitive. OPDS catalogs are not session-guarded; they
// authenticate with basic auth when credentials are configured.
type OPDSSource struct {
	catalogURL string
	username   string
	password   string
	client     *http.Client
}

func NewOPDSSource(catalogURL, username, password string, timeout time.Duration, logLevel string) *OPDSSource {
	// Default to the conventional feed path when only a host is configured.
	if catalogURL != "" {
		if u, err := url.Parse(catalogURL); err == nil && u.Scheme != "" {
			if u.Path == "" || u.Path == "/" {
				u.Path = "/feed.xml"
				catalogURL = u.String()
			}
		}
	}

	return &OPDSSource{
		catalogURL: catalogURL,
		username:   username,
		password:   password,
		client: &http.Client{
			Transport: &util.LoggingTransport{LogLevel: logLevel},
			Timeout:   timeout,
		},
	}
}

func (s *OPDSSource) Search(ctx context.Context, query string) ([]models.BookSummary, error) {
	if s.catalogURL == "" {
		return nil, fmt.Errorf("OPDS catalog URL is not configured")
	}

	var matches []models.BookSummary
	seen := make(map[string]bool)
	visited := make(map[string]bool)
	queue := []string{s.catalogURL}

	processed := 0
	const maxPages = 20 // bound the walk on large or cyclic catalogs

	for len(queue) > 0 && processed < maxPages {
		pageURL := queue[0]
		queue = queue[1:]

		if visited[pageURL] {
			continue
		}
		visited[pageURL] = true
		processed++

		books, next, err := s.fetchPage(ctx, pageURL, query)
		if err != nil {
			log.Printf("DEBUG OPDS: error fetching page %s: %v", pageURL, err)
			continue
		}

		for _, b := range books {
			if seen[b.ID] {
				continue
			}
			seen[b.ID] = true
			matches = append(matches, b)
		}

		if next != "" && !visited[next] {
			queue = append(queue, next)
		}
	}

	return matches, nil
}

const relNext = "next"

func (s *OPDSSource) fetchPage(ctx context.Context, pageURL, query string) ([]models.BookSummary, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", err
	}

	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch OPDS feed from %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("OPDS feed returned status: %d", resp.StatusCode)
	}

	fp := &atom.Parser{}
	feed, err := fp.Parse(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse OPDS feed as Atom: %w", err)
	}

	baseURL, _ := url.Parse(pageURL)
	needle := strings.ToLower(strings.TrimSpace(query))

	var books []models.BookSummary
	for _, entry := range feed.Entries {
		book := entryToSummary(entry, baseURL)
		if matchesQuery(book, needle) {
			books = append(books, book)
		}
	}

	nextPageURL := ""
	for _, link := range feed.Links {
		if link.Rel == relNext {
			if ref, err := url.Parse(link.Href); err == nil {
				nextPageURL = baseURL.ResolveReference(ref).String()
			}
			break
		}
	}

	return books, nextPageURL, nil
}

const (
	relImage     = "http://opds-spec.org/image"
	relThumbnail = "http://opds-spec.org/image/thumbnail"
)

func entryToSummary(entry *atom.Entry, baseURL *url.URL) models.BookSummary {
	book := models.BookSummary{
		ID:           entry.ID,
		Title:        "Untitled",
		Description:  entry.Summary,
		ThumbnailURL: models.PlaceholderThumbnail,
	}

	if entry.Title != "" {
		book.Title = entry.Title
	}

	for _, author := range entry.Authors {
		if author != nil && author.Name != "" {
			book.Authors = append(book.Authors, author.Name)
		}
	}

	if entry.PublishedParsed != nil {
		year := entry.PublishedParsed.Year()
		book.PublishedYear = &year
	} else if entry.UpdatedParsed != nil {
		year := entry.UpdatedParsed.Year()
		book.PublishedYear = &year
	}

	thumbnail := ""
	for _, link := range entry.Links {
		if link.Rel == relThumbnail || (thumbnail == "" && link.Rel == relImage) {
			thumbnail = link.Href
		}
	}
	if thumbnail != "" {
		if ref, err := url.Parse(thumbnail); err == nil {
			resolved := baseURL.ResolveReference(ref).String()
			book.ThumbnailURL = strings.Replace(resolved, "http://", "https://", 1)
		}
	}

	return book
}

func matchesQuery(book models.BookSummary, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(book.Title), needle) {
		return true
	}
	for _, author := range book.Authors {
		if strings.Contains(strings.ToLower(author), needle) {
			return true
		}
	}
	return false
}
