// file: internal/covers/helpers_test.go
// version: 1.0.0
// guid: 2b9d4f63-a1e7-4c08-b3f5-6d0e8c7a9b21

package covers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"
)

// testPNG returns a w x h PNG filled with c.
func testPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

// fakeSource is a scripted Source that counts calls.
type fakeSource struct {
	kind  SourceKind
	fetch func(ctx context.Context, q Query) ([]byte, error)
	calls atomic.Int32
}

func (f *fakeSource) Name() string     { return string(f.kind) }
func (f *fakeSource) Kind() SourceKind { return f.kind }

func (f *fakeSource) Fetch(ctx context.Context, q Query) ([]byte, error) {
	f.calls.Add(1)
	return f.fetch(ctx, q)
}

func hitSource(kind SourceKind, data []byte) *fakeSource {
	return &fakeSource{kind: kind, fetch: func(context.Context, Query) ([]byte, error) {
		return data, nil
	}}
}

func missSource(kind SourceKind) *fakeSource {
	return &fakeSource{kind: kind, fetch: func(context.Context, Query) ([]byte, error) {
		return nil, ErrNotFound
	}}
}

// slowSource blocks until its context is done.
func slowSource(kind SourceKind) *fakeSource {
	return &fakeSource{kind: kind, fetch: func(ctx context.Context, _ Query) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
}

// Verify interface compliance
var (
	_ Source = (*OpenLibraryClient)(nil)
	_ Source = (*GoogleBooksClient)(nil)
	_ Source = (*fakeSource)(nil)
)
