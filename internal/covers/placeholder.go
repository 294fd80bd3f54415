// file: internal/covers/placeholder.go
// version: 1.0.0
// guid: 0f6b2d84-c9e1-4a73-b5d8-2e4c9a1f7b63

package covers

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/jpeg"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Placeholder dimensions in pixels.
const (
	PlaceholderWidth  = 400
	PlaceholderHeight = 600

	placeholderMargin = 20
	titleScale        = 3
	detailScale       = 2
	maxTitleLines     = 6
)

// placeholderPalette is the set of bright background colors.
var placeholderPalette = []color.RGBA{
	{255, 99, 71, 255},   // tomato red
	{135, 206, 250, 255}, // sky blue
	{255, 165, 0, 255},   // orange
	{124, 252, 0, 255},   // lawn green
	{255, 105, 180, 255}, // hot pink
	{32, 178, 170, 255},  // light sea green
	{147, 112, 219, 255}, // medium purple
	{255, 223, 0, 255},   // gold
}

var gold = color.RGBA{255, 223, 0, 255}

// PlaceholderSpec is the text drawn onto a generated cover.
type PlaceholderSpec struct {
	Title         string
	Author        string
	YearPublished int
}

// PlaceholderColor returns the background color for (title, author). The
// same pair always maps to the same color.
func PlaceholderColor(title, author string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(norm.NFC.String(strings.TrimSpace(title))))
	h.Write([]byte{0})
	h.Write([]byte(norm.NFC.String(strings.TrimSpace(author))))
	return placeholderPalette[h.Sum32()%uint32(len(placeholderPalette))]
}

// GeneratePlaceholder renders a JPEG cover showing the title, author and
// publication year over a color derived from (title, author). Output is
// byte-identical for identical input.
func GeneratePlaceholder(spec PlaceholderSpec) []byte {
	bg := PlaceholderColor(spec.Title, spec.Author)
	fg := color.RGBA{255, 255, 255, 255}
	if bg == gold {
		fg = color.RGBA{0, 0, 0, 255}
	}

	img := image.NewRGBA(image.Rect(0, 0, PlaceholderWidth, PlaceholderHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	title := norm.NFC.String(strings.TrimSpace(spec.Title))
	if title == "" {
		title = "Untitled"
	}
	lineHeight := basicfont.Face7x13.Height
	titleLines := wrapText(title, charsPerLine(titleScale), maxTitleLines)
	y := 150
	for _, line := range titleLines {
		drawCentered(img, line, y, titleScale, fg)
		y += lineHeight * titleScale
	}

	if author := norm.NFC.String(strings.TrimSpace(spec.Author)); author != "" {
		y = max(y+lineHeight*detailScale, 300)
		for _, line := range wrapText("By: "+author, charsPerLine(detailScale), 2) {
			drawCentered(img, line, y, detailScale, fg)
			y += lineHeight * detailScale
		}
	}
	if spec.YearPublished > 0 {
		y = max(y+lineHeight*detailScale, 400)
		drawCentered(img, fmt.Sprintf("Published: %d", spec.YearPublished), y, detailScale, fg)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		// Encoding a fixed-size RGBA image into memory cannot fail.
		panic(fmt.Sprintf("covers: encoding placeholder: %v", err))
	}
	return buf.Bytes()
}

func charsPerLine(scale int) int {
	return (PlaceholderWidth - 2*placeholderMargin) / (basicfont.Face7x13.Advance * scale)
}

// wrapText breaks s on spaces into at most maxLines lines of width runes.
// Overlong words are split; overflow is marked with "...".
func wrapText(s string, width, maxLines int) []string {
	var lines []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			lines = append(lines, string(current))
			current = current[:0]
		}
	}
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			flush()
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(current) == 0:
			current = append(current, w...)
		case len(current)+1+len(w) <= width:
			current = append(current, ' ')
			current = append(current, w...)
		default:
			flush()
			current = append(current, w...)
		}
	}
	flush()

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) > width-3 {
			last = last[:width-3]
		}
		lines[maxLines-1] = string(last) + "..."
	}
	return lines
}

// drawCentered draws text horizontally centered with its top at y, scaling
// the 7x13 bitmap font by an integer factor.
func drawCentered(dst *image.RGBA, text string, y, scale int, fg color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	if width == 0 {
		return
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, width, face.Height))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)

	scaledW := width * scale
	x := (PlaceholderWidth - scaledW) / 2
	target := image.Rect(x, y, x+scaledW, y+face.Height*scale)
	draw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), draw.Over, nil)
}
