// file: internal/library/loader.go
// version: 1.0.0
// guid: a156bdaf-4fb0-47ba-aae2-96a6577507d8

package library

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jdfalk/reading-report/internal/isbn"
	"github.com/jdfalk/reading-report/internal/logger"
)

// Column names as they appear in the Goodreads export header.
const (
	ColBookID          = "Book Id"
	ColTitle           = "Title"
	ColAuthor          = "Author"
	ColISBN            = "ISBN"
	ColISBN13          = "ISBN13"
	ColPages           = "Number of Pages"
	ColDateRead        = "Date Read"
	ColRating          = "My Rating"
	ColYearPublished   = "Year Published"
	ColOrigPublication = "Original Publication Year"
)

// ErrMissingColumn is wrapped by FatalInputError when a required column is absent.
var ErrMissingColumn = errors.New("missing required column")

// FatalInputError reports an export that cannot be processed at all.
type FatalInputError struct {
	Path string
	Err  error
}

func (e *FatalInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid library export: %v", e.Err)
	}
	return fmt.Sprintf("invalid library export %s: %v", e.Path, e.Err)
}

func (e *FatalInputError) Unwrap() error {
	return e.Err
}

var dateLayouts = []string{
	"2006/01/02",
	"2006-01-02",
	"01/02/2006",
	"2006/1/2",
}

// Load reads the export at path.
func Load(path string) ([]Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FatalInputError{Path: path, Err: err}
	}
	defer f.Close()

	books, err := Parse(f)
	if err != nil {
		var fatal *FatalInputError
		if errors.As(err, &fatal) && fatal.Path == "" {
			fatal.Path = path
		}
		return nil, err
	}
	return books, nil
}

// Parse reads an export from r. Rows keep their order; only a broken
// header or broken CSV structure is an error.
func Parse(r io.Reader) ([]Book, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &FatalInputError{Err: errors.New("empty file")}
	}
	if err != nil {
		return nil, &FatalInputError{Err: fmt.Errorf("failed to read header: %w", err)}
	}

	cols := indexColumns(header)
	if err := requireColumns(cols); err != nil {
		return nil, &FatalInputError{Err: err}
	}

	var books []Book
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &FatalInputError{Err: fmt.Errorf("failed to read row %d: %w", len(books)+1, err)}
		}
		if blankRecord(record) {
			continue
		}
		books = append(books, parseRow(len(books), record, cols))
	}
	return books, nil
}

type columns map[string]int

func indexColumns(header []string) columns {
	cols := make(columns, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		cols[strings.ToLower(name)] = i
	}
	return cols
}

func (c columns) has(name string) bool {
	_, ok := c[strings.ToLower(name)]
	return ok
}

func (c columns) get(record []string, name string) string {
	i, ok := c[strings.ToLower(name)]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func requireColumns(cols columns) error {
	var missing []string
	for _, name := range []string{ColTitle, ColAuthor} {
		if !cols.has(name) {
			missing = append(missing, name)
		}
	}
	if !cols.has(ColISBN) && !cols.has(ColISBN13) {
		missing = append(missing, ColISBN+"/"+ColISBN13)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func parseRow(row int, record []string, cols columns) Book {
	book := Book{
		Row:    row,
		BookID: cols.get(record, ColBookID),
		Title:  CleanTitle(cols.get(record, ColTitle)),
		Author: cols.get(record, ColAuthor),
	}

	raw13 := cols.get(record, ColISBN13)
	raw10 := cols.get(record, ColISBN)
	book.RawISBN = isbn.Clean(raw13)
	if book.RawISBN == "" {
		book.RawISBN = isbn.Clean(raw10)
	}
	book.ISBN = isbn.Normalize(raw13)
	if book.ISBN == "" {
		book.ISBN = isbn.Normalize(raw10)
	}
	if book.ISBN == "" && book.RawISBN != "" {
		logger.Debugf("row %d (%s): identifier %q is not a valid ISBN", row+1, book.Title, book.RawISBN)
	}

	if pages := cols.get(record, ColPages); pages != "" {
		n, err := strconv.Atoi(pages)
		if err != nil || n < 0 {
			logger.Debugf("row %d (%s): unparseable page count %q, using 0", row+1, book.Title, pages)
		} else {
			book.Pages = n
		}
	}

	if d := cols.get(record, ColDateRead); d != "" {
		if t, ok := parseDate(d); ok {
			book.DateRead = &t
		} else {
			logger.Debugf("row %d (%s): unparseable date read %q", row+1, book.Title, d)
		}
	}

	if r, err := strconv.Atoi(cols.get(record, ColRating)); err == nil && r >= 0 && r <= 5 {
		book.Rating = r
	}

	book.YearPublished = parseYear(cols.get(record, ColYearPublished))
	if book.YearPublished == 0 {
		book.YearPublished = parseYear(cols.get(record, ColOrigPublication))
	}
	return book
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseYear(s string) int {
	y, err := strconv.Atoi(s)
	if err != nil || y <= 0 {
		return 0
	}
	return y
}
