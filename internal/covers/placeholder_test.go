// file: internal/covers/placeholder_test.go
// version: 1.0.0
// guid: 9d4e2b81-3f6c-4a05-8e7d-1c5a0b3f6e92

package covers

import (
	"bytes"
	"image"
	"image/jpeg"
	"strings"
	"testing"
)

func TestGeneratePlaceholderDimensions(t *testing.T) {
	data := GeneratePlaceholder(PlaceholderSpec{Title: "Dune", Author: "Frank Herbert", YearPublished: 1965})
	if len(data) == 0 {
		t.Fatal("expected non-empty placeholder")
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("placeholder is not a valid JPEG: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, PlaceholderWidth, PlaceholderHeight) {
		t.Errorf("unexpected placeholder bounds %v", got)
	}
}

func TestGeneratePlaceholderDeterministic(t *testing.T) {
	spec := PlaceholderSpec{Title: "Leviathan Wakes", Author: "James S.A. Corey"}
	a := GeneratePlaceholder(spec)
	b := GeneratePlaceholder(spec)
	if !bytes.Equal(a, b) {
		t.Error("expected byte-identical placeholders for identical input")
	}

	other := GeneratePlaceholder(PlaceholderSpec{Title: "Caliban's War", Author: "James S.A. Corey"})
	if bytes.Equal(a, other) {
		t.Error("expected different titles to produce different images")
	}
}

func TestPlaceholderColorStable(t *testing.T) {
	c1 := PlaceholderColor("The Hobbit", "J.R.R. Tolkien")
	c2 := PlaceholderColor("  The Hobbit ", "J.R.R. Tolkien")
	if c1 != c2 {
		t.Errorf("expected surrounding whitespace to be ignored: %v vs %v", c1, c2)
	}

	// NFC and NFD spellings of the same title share a color.
	if PlaceholderColor("Caf\u00e9", "A") != PlaceholderColor("Cafe\u0301", "A") {
		t.Error("expected normalized titles to share a color")
	}

	found := false
	for _, p := range placeholderPalette {
		if p == c1 {
			found = true
		}
	}
	if !found {
		t.Errorf("color %v is not from the palette", c1)
	}
}

func TestGeneratePlaceholderEmptyTitle(t *testing.T) {
	if data := GeneratePlaceholder(PlaceholderSpec{}); len(data) == 0 {
		t.Fatal("expected placeholder for empty spec")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("The Long Way to a Small Angry Planet", 17, 6)
	for _, l := range lines {
		if len([]rune(l)) > 17 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "The Long Way to a Small Angry Planet" {
		t.Errorf("wrapping lost words: %q", lines)
	}

	long := wrapText(strings.Repeat("word ", 50), 10, 2)
	if len(long) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(long))
	}
	if !strings.HasSuffix(long[1], "...") {
		t.Errorf("expected ellipsis on truncated text, got %q", long[1])
	}

	split := wrapText("Supercalifragilistic", 8, 6)
	if len(split) != 3 || split[0] != "Supercal" {
		t.Errorf("expected long word to be split, got %q", split)
	}
}
