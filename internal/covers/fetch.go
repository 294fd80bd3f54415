// file: internal/covers/fetch.go
// version: 1.0.0
// guid: 3e7d5c10-6a2f-4c1b-9f0e-8d4a7b2c1e55

package covers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
	"golang.org/x/time/rate"
)

const (
	maxImageBytes = 10 * 1024 * 1024
	jpegQuality   = 90
	userAgent     = "reading-report/1.0 (+https://github.com/jdfalk/reading-report)"
)

// httpFetcher is the HTTP plumbing shared by the remote sources.
type httpFetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newHTTPFetcher(timeout time.Duration, requestsPerSecond float64) *httpFetcher {
	f := &httpFetcher{
		httpClient: &http.Client{Timeout: timeout},
	}
	if requestsPerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return f
}

func (f *httpFetcher) do(ctx context.Context, url string) (*http.Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	return f.httpClient.Do(req)
}

func (f *httpFetcher) getJSON(ctx context.Context, url string, target any) error {
	resp, err := f.do(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// getImage downloads url and returns the payload if it is a non-empty image.
func (f *httpFetcher) getImage(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cover download returned status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("unexpected content type: %s", ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read cover: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return data, nil
}

// NormalizeImage decodes data and re-encodes it as an RGB JPEG. Payloads
// that do not decode, or that are a 1x1 "no cover" pixel, are rejected.
func NormalizeImage(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= 1 || b.Dy() <= 1 {
		return nil, ErrNotFound
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
