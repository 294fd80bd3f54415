// file: internal/covers/googlebooks_test.go
// version: 1.0.0
// guid: d4e5f6a7-b8c9-0d1e-2f3a-b4c5d6e7f8a9

package covers

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGoogleBooksClient_Name(t *testing.T) {
	c := NewGoogleBooksClient("", time.Second, 0)
	if c.Name() != "Google Books" {
		t.Errorf("expected 'Google Books', got %q", c.Name())
	}
	if c.Kind() != SourceGoogleBooks {
		t.Errorf("unexpected kind %q", c.Kind())
	}
}

func TestGoogleBooksClient_Fetch(t *testing.T) {
	cover := testPNG(t, 12, 18, color.RGBA{9, 9, 9, 255})
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/volumes":
			if q := r.URL.Query().Get("q"); q != "isbn:9780618260300" {
				t.Errorf("unexpected query %q", q)
			}
			if key := r.URL.Query().Get("key"); key != "k3y" {
				t.Errorf("expected API key, got %q", key)
			}
			fmt.Fprintf(w, `{
				"totalItems": 1,
				"items": [{
					"volumeInfo": {
						"title": "The Hobbit",
						"authors": ["J.R.R. Tolkien"],
						"imageLinks": {"thumbnail": "%s/thumb.jpg", "large": "%s/large.jpg"}
					}
				}]
			}`, server.URL, server.URL)
		case "/large.jpg":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(cover)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewGoogleBooksClientWithBaseURL(server.URL, "k3y", time.Second, 0)
	data, err := client.Fetch(context.Background(), Query{ISBN: "9780618260300", Title: "The Hobbit"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != len(cover) {
		t.Errorf("expected the large image, got %d bytes", len(data))
	}
}

func TestGoogleBooksClient_NoItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer server.Close()

	client := NewGoogleBooksClientWithBaseURL(server.URL, "", time.Second, 0)
	_, err := client.Fetch(context.Background(), Query{ISBN: "9780618260300"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGoogleBooksClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewGoogleBooksClientWithBaseURL(server.URL, "", time.Second, 0)
	if _, err := client.Fetch(context.Background(), Query{ISBN: "9780618260300"}); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestGoogleBooksClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewGoogleBooksClientWithBaseURL(server.URL, "", 50*time.Millisecond, 0)
	if _, err := client.Fetch(context.Background(), Query{ISBN: "9780618260300"}); err == nil {
		t.Error("expected timeout error")
	}
}

func TestSelectCoverURL(t *testing.T) {
	items := []googleBooksVol{
		{VolumeInfo: googleBooksVolumeInfo{Title: "No Image"}},
		{VolumeInfo: googleBooksVolumeInfo{Title: "The Hobbit Companion", ImageLinks: &googleBooksImageLinks{Thumbnail: "companion"}}},
		{VolumeInfo: googleBooksVolumeInfo{Title: "The Hobbit", ImageLinks: &googleBooksImageLinks{SmallThumbnail: "hobbit"}}},
	}

	if got := selectCoverURL(items, "The Hobbit"); got != "hobbit" {
		t.Errorf("expected closest title match, got %q", got)
	}
	if got := selectCoverURL(items, ""); got != "companion" {
		t.Errorf("expected first volume with an image, got %q", got)
	}
	if got := selectCoverURL(items, "Something Else Entirely"); got != "companion" {
		t.Errorf("expected fallback to first image, got %q", got)
	}
	if got := selectCoverURL(items[:1], "No Image"); got != "" {
		t.Errorf("expected no URL, got %q", got)
	}
}

func TestImageLinksPreference(t *testing.T) {
	links := &googleBooksImageLinks{Thumbnail: "t", Medium: "m", SmallThumbnail: "s"}
	if got := links.best(); got != "m" {
		t.Errorf("expected medium, got %q", got)
	}
	var none *googleBooksImageLinks
	if got := none.best(); got != "" {
		t.Errorf("expected empty for nil links, got %q", got)
	}
}
