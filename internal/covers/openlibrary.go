// file: internal/covers/openlibrary.go
// version: 1.0.0
// guid: 8c2f4a91-17d3-4e6b-a0c5-5f9e3d7b2a40

package covers

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// OpenLibraryClient fetches cover art from the Open Library Covers API.
type OpenLibraryClient struct {
	*httpFetcher
	baseURL string
}

// NewOpenLibraryClient creates a client for the public covers endpoint.
// OPENLIBRARY_COVERS_BASE_URL overrides the endpoint.
func NewOpenLibraryClient(timeout time.Duration, requestsPerSecond float64) *OpenLibraryClient {
	baseURL := os.Getenv("OPENLIBRARY_COVERS_BASE_URL")
	if baseURL == "" {
		baseURL = "https://covers.openlibrary.org"
	}
	return NewOpenLibraryClientWithBaseURL(baseURL, timeout, requestsPerSecond)
}

// NewOpenLibraryClientWithBaseURL creates a client with a custom base URL.
func NewOpenLibraryClientWithBaseURL(baseURL string, timeout time.Duration, requestsPerSecond float64) *OpenLibraryClient {
	return &OpenLibraryClient{
		httpFetcher: newHTTPFetcher(timeout, requestsPerSecond),
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the display name for this cover source.
func (c *OpenLibraryClient) Name() string {
	return "Open Library"
}

// Kind identifies the tier.
func (c *OpenLibraryClient) Kind() SourceKind {
	return SourceOpenLibrary
}

// CoverURL returns the large cover URL for isbn. default=false makes the
// service answer 404 instead of serving its blank image.
func (c *OpenLibraryClient) CoverURL(isbn string) string {
	return fmt.Sprintf("%s/b/isbn/%s-L.jpg?default=false", c.baseURL, url.PathEscape(isbn))
}

// Fetch downloads the cover for q.ISBN.
func (c *OpenLibraryClient) Fetch(ctx context.Context, q Query) ([]byte, error) {
	if q.ISBN == "" {
		return nil, ErrNotFound
	}
	data, err := c.getImage(ctx, c.CoverURL(q.ISBN))
	if err != nil {
		return nil, fmt.Errorf("Open Library cover for %s: %w", q.ISBN, err)
	}
	return data, nil
}
