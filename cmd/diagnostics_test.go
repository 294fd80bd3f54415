// file: cmd/diagnostics_test.go
// version: 2.1.0
// guid: 5480d7f7-4a6a-4b7f-9d16-6b589c8a3c0b

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jdfalk/reading-report/internal/config"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func TestHasPrefix(t *testing.T) {
	prefixes := []string{"cover_", "GENERIC_"}
	if !hasPrefix("GENERIC_12.jpg", prefixes) {
		t.Fatal("expected prefix match")
	}
	if hasPrefix("notes.jpg", prefixes) {
		t.Fatal("did not expect prefix match")
	}
}

func TestPromptYesNo(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	_, _ = w.Write([]byte("yes\n"))
	_ = w.Close()

	origStdin := os.Stdin
	os.Stdin = r
	defer func() {
		os.Stdin = origStdin
	}()

	var confirmed bool
	captureStdout(t, func() {
		confirmed, err = promptYesNo("confirm")
	})
	if err != nil {
		t.Fatalf("promptYesNo failed: %v", err)
	}
	if !confirmed {
		t.Fatal("expected confirmation")
	}
}

func TestFindCoverFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "cover_1.jpg", "GENERIC_2.jpg", "notes.txt", "other.jpg")

	files, err := findCoverFiles(dir, false)
	if err != nil {
		t.Fatalf("findCoverFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 cover files, got %v", files)
	}

	files, err = findCoverFiles(dir, true)
	if err != nil {
		t.Fatalf("findCoverFiles failed: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "GENERIC_2.jpg" {
		t.Fatalf("expected only the generic cover, got %v", files)
	}

	files, err = findCoverFiles(filepath.Join(dir, "missing"), false)
	if err != nil || len(files) != 0 {
		t.Fatalf("expected no files and no error for a missing dir, got %v, %v", files, err)
	}
}

func TestRunCleanCoversDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "cover_1.jpg", "GENERIC_2.jpg")

	out := captureStdout(t, func() {
		if err := runCleanCovers(dir, false, true, false); err != nil {
			t.Errorf("dry run failed: %v", err)
		}
	})
	if !strings.Contains(out, "Dry run enabled") {
		t.Errorf("unexpected output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "cover_1.jpg")); err != nil {
		t.Error("dry run must not remove files")
	}
}

func TestRunCleanCoversForce(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "cover_1.jpg", "GENERIC_2.jpg", "keep.txt")

	captureStdout(t, func() {
		if err := runCleanCovers(dir, true, false, true); err != nil {
			t.Errorf("clean failed: %v", err)
		}
	})
	if _, err := os.Stat(filepath.Join(dir, "GENERIC_2.jpg")); !os.IsNotExist(err) {
		t.Error("expected generic cover to be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "cover_1.jpg")); err != nil {
		t.Error("expected real cover to be kept")
	}
	if _, err := os.Stat(filepath.Join(dir, "keep.txt")); err != nil {
		t.Error("expected unrelated file to be kept")
	}
}

func TestRunCleanCoversRequiresDir(t *testing.T) {
	if err := runCleanCovers("", true, false, false); err == nil {
		t.Fatal("expected error without a covers directory")
	}
}

func TestRunCheckExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	csv := "Title,Author,ISBN,ISBN13,Number of Pages,Date Read\n" +
		"Good,A,,9780306406157,100,2020/01/01\n" +
		"Bad,B,=\"123\",,50,\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("failed to write export: %v", err)
	}

	out := captureStdout(t, func() {
		if err := runCheckExport(path, 5); err != nil {
			t.Errorf("check-export failed: %v", err)
		}
	})
	for _, want := range []string{"Books: 2", "With read date: 1", "Total pages: 150", "Without a usable ISBN: 1", "Row 2: Bad", "Identifier: 123"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	if err := runCheckExport(path, 0); err == nil {
		t.Error("expected error for invalid limit")
	}
}

func TestRunCheckExportMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte("Name\nX\n"), 0o644); err != nil {
		t.Fatalf("failed to write export: %v", err)
	}
	if err := runCheckExport(path, 5); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestRunLookupRejectsInvalidISBN(t *testing.T) {
	origConfig := config.AppConfig
	defer func() {
		config.AppConfig = origConfig
	}()

	if err := runLookup(context.Background(), "12345", ""); err == nil {
		t.Fatal("expected error for invalid ISBN")
	}
}

func coverJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 15))
	for y := 0; y < 15; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{200, 40, 40, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestRunLookupFindsCover(t *testing.T) {
	cover := coverJPEG(t)

	tests := []struct {
		name        string
		openLibrary bool
		wantSource  string
	}{
		{"open library hit", true, "Source: openlibrary"},
		{"google books fallback", false, "Source: googlebooks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			openLibrary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !tt.openLibrary || r.URL.Path != "/b/isbn/9780306406157-L.jpg" {
					http.NotFound(w, r)
					return
				}
				w.Header().Set("Content-Type", "image/jpeg")
				_, _ = w.Write(cover)
			}))
			defer openLibrary.Close()

			var googleBooks *httptest.Server
			googleBooks = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/volumes":
					fmt.Fprintf(w, `{"totalItems": 1, "items": [{"volumeInfo": {"title": "Solo", "imageLinks": {"thumbnail": "%s/cover.jpg"}}}]}`, googleBooks.URL)
				case "/cover.jpg":
					w.Header().Set("Content-Type", "image/jpeg")
					_, _ = w.Write(cover)
				default:
					http.NotFound(w, r)
				}
			}))
			defer googleBooks.Close()

			origConfig := config.AppConfig
			defer func() {
				config.AppConfig = origConfig
			}()
			config.AppConfig = config.Config{
				LookupTimeout:            time.Second,
				OpenLibraryCoversBaseURL: openLibrary.URL,
				GoogleBooksBaseURL:       googleBooks.URL,
			}

			var err error
			out := captureStdout(t, func() {
				err = runLookup(context.Background(), "978-0-306-40615-7", "Solo")
			})
			if err != nil {
				t.Fatalf("runLookup failed: %v", err)
			}
			if !strings.Contains(out, "ISBN: 9780306406157") {
				t.Errorf("expected normalized ISBN in output: %q", out)
			}
			if !strings.Contains(out, tt.wantSource) {
				t.Errorf("expected %q in output: %q", tt.wantSource, out)
			}
			if strings.Contains(out, "placeholder") {
				t.Errorf("did not expect a placeholder: %q", out)
			}
		})
	}
}
