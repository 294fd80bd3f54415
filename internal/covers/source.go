// file: internal/covers/source.go
// version: 1.0.0
// guid: 61b8de53-c76d-4208-944f-9b923d27af38

package covers

import (
	"context"
	"errors"
)

// SourceKind names the tier a cover image came from.
type SourceKind string

const (
	SourceOpenLibrary SourceKind = "openlibrary"
	SourceGoogleBooks SourceKind = "googlebooks"
	SourcePlaceholder SourceKind = "placeholder"
)

// ErrNotFound is returned by a Source that answered but has no usable image.
var ErrNotFound = errors.New("cover not found")

// Query describes the book being looked up. ISBN is always set when a
// Source is consulted; Title and Author help sources pick between results.
type Query struct {
	ISBN   string
	Title  string
	Author string
}

// Source is one tier of the remote lookup chain. Fetch returns the raw
// image payload or an error; any error is treated as a miss.
type Source interface {
	Name() string
	Kind() SourceKind
	Fetch(ctx context.Context, q Query) ([]byte, error)
}

// CoverResult is the resolved cover for one book.
type CoverResult struct {
	ISBN    string
	Source  SourceKind
	Image   []byte // JPEG
	Path    string // file under the covers directory, "" when not written
	Success bool
}

// IsPlaceholder reports whether no real cover art was found.
func (r CoverResult) IsPlaceholder() bool {
	return r.Source == SourcePlaceholder
}
