// file: internal/covers/resolver.go
// version: 1.0.0
// guid: 7a3c9e52-08b4-4d1f-8e6a-c2b5f0d9e317

package covers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jdfalk/reading-report/internal/cache"
	"github.com/jdfalk/reading-report/internal/library"
	"github.com/jdfalk/reading-report/internal/logger"
	"github.com/jdfalk/reading-report/internal/metrics"
)

// DefaultLookupTimeout bounds each individual source call.
const DefaultLookupTimeout = 10 * time.Second

// Resolver walks the source chain for each book and falls back to a
// generated placeholder. Results are memoized per ISBN for the run.
type Resolver struct {
	sources []Source
	timeout time.Duration
	cache   *cache.Cache[CoverResult]
	store   *Store
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout sets the per-call timeout applied to every source.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithStore writes every resolved cover to store.
func WithStore(store *Store) Option {
	return func(r *Resolver) {
		r.store = store
	}
}

// NewResolver creates a resolver that consults sources in order.
func NewResolver(sources []Source, opts ...Option) *Resolver {
	r := &Resolver{
		sources: sources,
		timeout: DefaultLookupTimeout,
		cache:   cache.New[CoverResult](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the cover for book. It never fails: when no source has
// artwork, or the book has no usable ISBN, a placeholder is returned.
func (r *Resolver) Resolve(ctx context.Context, book library.Book) CoverResult {
	var result CoverResult
	if book.HasISBN() {
		var cached bool
		result, cached = r.cache.GetOrCompute(book.ISBN, func() CoverResult {
			logger.LogCacheMiss("covers", book.ISBN)
			return r.lookup(ctx, book)
		})
		if cached {
			logger.LogCacheHit("covers", book.ISBN)
			metrics.IncCacheHit()
		}
	} else {
		logger.Debugf("no usable ISBN for %q, generating placeholder", book.Title)
		result = placeholderResult(book)
	}
	metrics.IncResolved(string(result.Source))

	if r.store != nil {
		path, err := r.store.Save(book.Key(), result.Source, result.Image)
		if err != nil {
			logger.Warnf("could not save cover for %q: %v", book.Title, err)
		} else {
			result.Path = path
		}
	}
	return result
}

// lookup runs the source chain for a book with an ISBN.
func (r *Resolver) lookup(ctx context.Context, book library.Book) CoverResult {
	q := Query{ISBN: book.ISBN, Title: book.Title, Author: book.Author}
	for _, src := range r.sources {
		if ctx.Err() != nil {
			break
		}
		data, err := r.attempt(ctx, src, q)
		if err != nil {
			continue
		}
		logger.Debugf("cover for %q found via %s", book.Title, src.Name())
		return CoverResult{
			ISBN:    book.ISBN,
			Source:  src.Kind(),
			Image:   data,
			Success: true,
		}
	}
	logger.Debugf("no cover found for %q (ISBN %s), generating placeholder", book.Title, book.ISBN)
	return placeholderResult(book)
}

// attempt calls one source under its own timeout and validates the payload.
func (r *Resolver) attempt(ctx context.Context, src Source, q Query) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	data, err := src.Fetch(callCtx, q)
	metrics.ObserveLookupDuration(string(src.Kind()), time.Since(start))
	if err == nil {
		data, err = NormalizeImage(data)
	}

	switch {
	case err == nil:
		metrics.IncLookup(string(src.Kind()), "hit")
	case errors.Is(err, context.DeadlineExceeded):
		metrics.IncLookup(string(src.Kind()), "timeout")
		logger.Debugf("%s timed out for ISBN %s", src.Name(), q.ISBN)
	case errors.Is(err, ErrNotFound):
		metrics.IncLookup(string(src.Kind()), "miss")
		logger.Debugf("%s has no cover for ISBN %s", src.Name(), q.ISBN)
	default:
		metrics.IncLookup(string(src.Kind()), "error")
		logger.Debugf("%s lookup failed for ISBN %s: %v", src.Name(), q.ISBN, err)
	}
	return data, err
}

func placeholderResult(book library.Book) CoverResult {
	return CoverResult{
		ISBN:   book.ISBN,
		Source: SourcePlaceholder,
		Image: GeneratePlaceholder(PlaceholderSpec{
			Title:         book.Title,
			Author:        book.Author,
			YearPublished: book.YearPublished,
		}),
		Success: true,
	}
}

// ResolveAll resolves every book with a bounded worker pool. Results are
// index-aligned with books regardless of completion order. progress, when
// non-nil, is called once per finished book.
func (r *Resolver) ResolveAll(ctx context.Context, books []library.Book, workers int, progress func()) ([]CoverResult, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]CoverResult, len(books))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i := range books {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case semaphore <- struct{}{}: // Acquire
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() {
				<-semaphore // Release
				if progress != nil {
					progress()
				}
			}()
			results[idx] = r.Resolve(ctx, books[idx])
		}(i)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// CacheStats returns run cache hit and miss counts.
func (r *Resolver) CacheStats() (hits, misses int) {
	return r.cache.Stats()
}
