// file: internal/report/missing.go
// version: 1.0.0
// guid: 4a9e7b21-c3d8-4f56-8e0a-1b6d2f9c7e35

package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jdfalk/reading-report/internal/covers"
	"github.com/jdfalk/reading-report/internal/library"
)

// MissingHeader is the first line of the missing-covers listing.
const MissingHeader = "Books without found covers:"

// MissingCover identifies a book that ended up with a generated cover.
type MissingCover struct {
	Title  string
	Author string
	BookID string
	ISBN   string
}

// MissingCovers returns, in book order, every book whose cover came from
// the placeholder tier. results must be index-aligned with books.
func MissingCovers(books []library.Book, results []covers.CoverResult) []MissingCover {
	var out []MissingCover
	for i, b := range books {
		if i < len(results) && !results[i].IsPlaceholder() {
			continue
		}
		isbn := b.ISBN
		if isbn == "" {
			isbn = b.RawISBN
		}
		out = append(out, MissingCover{
			Title:  b.Title,
			Author: b.Author,
			BookID: b.BookID,
			ISBN:   isbn,
		})
	}
	return out
}

// WriteMissing writes the plain-text listing. The output depends only on
// records.
func WriteMissing(w io.Writer, records []MissingCover) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n\n", MissingHeader)
	for _, r := range records {
		isbn := r.ISBN
		if isbn == "" {
			isbn = "N/A"
		}
		fmt.Fprintf(bw, "Title: %s, Author: %s, Book ID: %s, ISBN: %s\n", r.Title, r.Author, r.BookID, isbn)
	}
	return bw.Flush()
}
