// file: internal/report/text.go
// version: 1.0.0
// guid: 1f7a3c9d-2e5b-4d80-96c4-8b0e5a7d3f12

package report

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// encodeText converts UTF-8 to the Windows-1252 bytes expected by the PDF
// core fonts. Runes outside the code page become '?'.
func encodeText(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}

// measureFunc reports the rendered width of already encoded text.
type measureFunc func(string) float64

// fitLines wraps s on word boundaries into at most maxLines lines no wider
// than width. Text that does not fit is cut and marked with "...".
// Input and output are UTF-8.
func fitLines(s string, width float64, maxLines int, measure measureFunc) []string {
	fits := func(line string) bool {
		return measure(encodeText(line)) <= width
	}

	var lines []string
	current := ""
	for _, word := range strings.Fields(s) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if fits(candidate) {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		// Hard-cut words wider than a full line.
		for !fits(word) {
			head := longestFit(word, "", fits)
			lines = append(lines, head)
			word = strings.TrimPrefix(word, head)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = longestFit(lines[maxLines-1], "...", fits)
	}
	return lines
}

// longestFit returns the longest prefix of s that still fits once suffix is
// appended. At least one rune is kept when suffix is empty.
func longestFit(s, suffix string, fits func(string) bool) string {
	runes := []rune(s)
	for n := len(runes); n > 0; n-- {
		candidate := strings.TrimRight(string(runes[:n]), " ") + suffix
		if fits(candidate) {
			return candidate
		}
	}
	if suffix != "" {
		return suffix
	}
	return string(runes[:1])
}
