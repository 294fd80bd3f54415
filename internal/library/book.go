// file: internal/library/book.go
// version: 1.0.0
// guid: f12849fe-3cd8-4ff6-b337-657d5dd1e5c1

package library

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Book is one row of the reading-library export.
type Book struct {
	Row           int // 0-based position in the export
	BookID        string
	Title         string
	Author        string
	ISBN          string // cleaned and validated, "" when absent or malformed
	RawISBN       string // identifier as exported, for the missing-cover listing
	Pages         int
	DateRead      *time.Time
	Rating        int // 0 means unrated
	YearPublished int // 0 when unknown
}

// HasISBN reports whether the book carries a usable identifier.
func (b Book) HasISBN() bool {
	return b.ISBN != ""
}

// Key identifies the book for file naming: the export's Book Id when
// present, otherwise the row number.
func (b Book) Key() string {
	if b.BookID != "" {
		return b.BookID
	}
	return "row" + strconv.Itoa(b.Row+1)
}

var parenthetical = regexp.MustCompile(`\(.*?\)`)

// CleanTitle removes series annotations such as "(The Expanse, #1)".
func CleanTitle(title string) string {
	cleaned := strings.TrimSpace(parenthetical.ReplaceAllString(title, ""))
	if cleaned == "" {
		return strings.TrimSpace(title)
	}
	return strings.Join(strings.Fields(cleaned), " ")
}
