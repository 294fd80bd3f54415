// file: internal/covers/googlebooks.go
// version: 1.0.0
// guid: d5a0e6f2-4b8c-4c37-9e21-0a6b7f3c8d19

package covers

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// GoogleBooksClient fetches cover art through the Google Books Volume API.
// No API key is required for basic searches (free tier, ~1000 req/day).
type GoogleBooksClient struct {
	*httpFetcher
	baseURL string
	apiKey  string
}

// NewGoogleBooksClient creates a new Google Books API client.
// GOOGLE_BOOKS_BASE_URL overrides the endpoint.
func NewGoogleBooksClient(apiKey string, timeout time.Duration, requestsPerSecond float64) *GoogleBooksClient {
	baseURL := os.Getenv("GOOGLE_BOOKS_BASE_URL")
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/books/v1"
	}
	return NewGoogleBooksClientWithBaseURL(baseURL, apiKey, timeout, requestsPerSecond)
}

// NewGoogleBooksClientWithBaseURL creates a client with a custom base URL (for testing).
func NewGoogleBooksClientWithBaseURL(baseURL, apiKey string, timeout time.Duration, requestsPerSecond float64) *GoogleBooksClient {
	return &GoogleBooksClient{
		httpFetcher: newHTTPFetcher(timeout, requestsPerSecond),
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
	}
}

// Name returns the display name for this cover source.
func (c *GoogleBooksClient) Name() string {
	return "Google Books"
}

// Kind identifies the tier.
func (c *GoogleBooksClient) Kind() SourceKind {
	return SourceGoogleBooks
}

type googleBooksResponse struct {
	TotalItems int              `json:"totalItems"`
	Items      []googleBooksVol `json:"items"`
}

type googleBooksVol struct {
	VolumeInfo googleBooksVolumeInfo `json:"volumeInfo"`
}

type googleBooksVolumeInfo struct {
	Title      string                 `json:"title"`
	Authors    []string               `json:"authors"`
	ImageLinks *googleBooksImageLinks `json:"imageLinks"`
}

type googleBooksImageLinks struct {
	ExtraLarge     string `json:"extraLarge"`
	Large          string `json:"large"`
	Medium         string `json:"medium"`
	Small          string `json:"small"`
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

// best returns the largest available image link.
func (l *googleBooksImageLinks) best() string {
	if l == nil {
		return ""
	}
	for _, link := range []string{l.ExtraLarge, l.Large, l.Medium, l.Small, l.Thumbnail, l.SmallThumbnail} {
		if link != "" {
			return link
		}
	}
	return ""
}

// Fetch looks the ISBN up and downloads the best matching volume's cover.
func (c *GoogleBooksClient) Fetch(ctx context.Context, q Query) ([]byte, error) {
	if q.ISBN == "" {
		return nil, ErrNotFound
	}

	searchURL := fmt.Sprintf("%s/volumes?q=%s&maxResults=5", c.baseURL, url.QueryEscape("isbn:"+q.ISBN))
	if c.apiKey != "" {
		searchURL += "&key=" + url.QueryEscape(c.apiKey)
	}

	var gbResp googleBooksResponse
	if err := c.getJSON(ctx, searchURL, &gbResp); err != nil {
		return nil, fmt.Errorf("Google Books search for %s: %w", q.ISBN, err)
	}

	coverURL := selectCoverURL(gbResp.Items, q.Title)
	if coverURL == "" {
		return nil, fmt.Errorf("Google Books search for %s: %w", q.ISBN, ErrNotFound)
	}

	data, err := c.getImage(ctx, coverURL)
	if err != nil {
		return nil, fmt.Errorf("Google Books cover for %s: %w", q.ISBN, err)
	}
	return data, nil
}

// selectCoverURL picks the volume whose title matches best among those
// that carry an image. With no title or no fuzzy match, the first volume
// with an image wins.
func selectCoverURL(items []googleBooksVol, title string) string {
	var titles, links []string
	for _, item := range items {
		if link := item.VolumeInfo.ImageLinks.best(); link != "" {
			titles = append(titles, item.VolumeInfo.Title)
			links = append(links, link)
		}
	}
	if len(links) == 0 {
		return ""
	}
	if title == "" || len(links) == 1 {
		return links[0]
	}

	ranks := fuzzy.RankFindNormalizedFold(title, titles)
	if len(ranks) == 0 {
		return links[0]
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance || (r.Distance == best.Distance && r.OriginalIndex < best.OriginalIndex) {
			best = r
		}
	}
	return links[best.OriginalIndex]
}
