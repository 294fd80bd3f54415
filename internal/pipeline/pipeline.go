// file: internal/pipeline/pipeline.go
// version: 1.0.0
// guid: 2d6f9b3e-4a8c-4e71-b5d0-7c1e3a9f6b28

// Package pipeline runs one report generation: load the export, resolve
// covers, aggregate statistics, render and write the outputs.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"

	"github.com/jdfalk/reading-report/internal/config"
	"github.com/jdfalk/reading-report/internal/covers"
	"github.com/jdfalk/reading-report/internal/library"
	"github.com/jdfalk/reading-report/internal/logger"
	"github.com/jdfalk/reading-report/internal/metrics"
	"github.com/jdfalk/reading-report/internal/report"
	"github.com/jdfalk/reading-report/internal/stats"
)

// Summary describes a finished run.
type Summary struct {
	RunID         string
	Books         int
	BySource      map[covers.SourceKind]int
	Missing       []report.MissingCover
	Years         []stats.YearStat
	Render        *report.Result
	CacheHits     int
	CacheMisses   int
	OutputPDF     string
	MissingReport string
}

// Pipeline wires the stages together for one configuration.
type Pipeline struct {
	cfg      config.Config
	sources  []covers.Source
	renderer *report.Renderer
	gatherer prometheus.Gatherer
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSources replaces the default Open Library then Google Books chain.
// With no sources every book gets a placeholder.
func WithSources(sources ...covers.Source) Option {
	return func(p *Pipeline) {
		p.sources = append([]covers.Source{}, sources...)
	}
}

// WithRenderer replaces the default report renderer.
func WithRenderer(r *report.Renderer) Option {
	return func(p *Pipeline) {
		p.renderer = r
	}
}

// WithClock sets the time stamped into the report.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithGatherer sets where the metrics textfile is gathered from.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(p *Pipeline) {
		p.gatherer = g
	}
}

// New creates a pipeline for cfg.
func New(cfg config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		renderer: report.NewRenderer(),
		gatherer: prometheus.DefaultGatherer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sources == nil {
		p.sources = DefaultSources(cfg)
	}
	return p
}

// DefaultSources builds the remote lookup chain from cfg.
func DefaultSources(cfg config.Config) []covers.Source {
	openLibrary := covers.NewOpenLibraryClient(cfg.LookupTimeout, cfg.RequestsPerSecond)
	if cfg.OpenLibraryCoversBaseURL != "" {
		openLibrary = covers.NewOpenLibraryClientWithBaseURL(cfg.OpenLibraryCoversBaseURL, cfg.LookupTimeout, cfg.RequestsPerSecond)
	}
	googleBooks := covers.NewGoogleBooksClient(cfg.GoogleBooksAPIKey, cfg.LookupTimeout, cfg.RequestsPerSecond)
	if cfg.GoogleBooksBaseURL != "" {
		googleBooks = covers.NewGoogleBooksClientWithBaseURL(cfg.GoogleBooksBaseURL, cfg.GoogleBooksAPIKey, cfg.LookupTimeout, cfg.RequestsPerSecond)
	}
	return []covers.Source{openLibrary, googleBooks}
}

// Run executes every stage. Only fatal input errors, cancellation and
// output write failures are returned; cover lookup failures never are.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	metrics.Register()
	runID := ulid.Make().String()
	summary := &Summary{
		RunID:         runID,
		BySource:      make(map[covers.SourceKind]int),
		OutputPDF:     p.cfg.OutputPDF,
		MissingReport: p.cfg.MissingReport,
	}

	// Stage 1: load
	stage := logger.NewStageLogger("load", runID)
	stage.LogStart()
	books, err := library.Load(p.cfg.InputPath)
	if err != nil {
		stage.LogError(err)
		return nil, err
	}
	stage.LogSuccess(len(books))
	summary.Books = len(books)
	metrics.SetBooks(len(books))

	// Stage 2: resolve covers
	stage = logger.NewStageLogger("resolve", runID)
	stage.LogStart()
	results, resolver, err := p.resolve(ctx, books)
	if err != nil {
		stage.LogError(err)
		return nil, err
	}
	for _, r := range results {
		summary.BySource[r.Source]++
	}
	summary.CacheHits, summary.CacheMisses = resolver.CacheStats()
	stage.LogSuccess(len(results))

	// Stage 3: statistics
	summary.Years = stats.Aggregate(books)

	// Stage 4: render
	stage = logger.NewStageLogger("render", runID)
	stage.LogStart()
	var pdf bytes.Buffer
	rendered, err := p.renderer.Render(&pdf, report.Input{
		Books:       books,
		Covers:      results,
		Years:       summary.Years,
		Summary:     stats.Summarize(books),
		GeneratedAt: p.now(),
	})
	if err != nil {
		stage.LogError(err)
		return nil, err
	}
	summary.Render = rendered
	logger.Debugf("thumbnail grid spans %d of %d pages", rendered.GridPages, rendered.Pages)
	stage.LogSuccess(rendered.Pages)

	// Stage 5: write outputs
	stage = logger.NewStageLogger("write", runID)
	stage.LogStart()
	summary.Missing = report.MissingCovers(books, results)
	if err := report.WriteFiles(report.Outputs{
		PDFPath:     p.cfg.OutputPDF,
		PDF:         pdf.Bytes(),
		MissingPath: p.cfg.MissingReport,
		Missing:     summary.Missing,
	}); err != nil {
		stage.LogError(err)
		return nil, err
	}
	metrics.SetMissingCovers(len(summary.Missing))
	stage.LogSuccess(2)

	if p.cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(p.cfg.MetricsFile, p.gatherer); err != nil {
			logger.Warnf("could not write metrics file %s: %v", p.cfg.MetricsFile, err)
		}
	}
	return summary, nil
}

func (p *Pipeline) resolve(ctx context.Context, books []library.Book) ([]covers.CoverResult, *covers.Resolver, error) {
	opts := []covers.Option{covers.WithTimeout(p.cfg.LookupTimeout)}
	if p.cfg.CoversDir != "" {
		store, err := covers.NewStore(p.cfg.CoversDir)
		if err != nil {
			return nil, nil, fmt.Errorf("covers directory: %w", err)
		}
		opts = append(opts, covers.WithStore(store))
	}
	resolver := covers.NewResolver(p.sources, opts...)

	var progress func()
	if p.cfg.Progress && len(books) > 0 {
		bar := progressbar.Default(int64(len(books)), "resolving covers")
		defer bar.Finish()
		progress = func() { _ = bar.Add(1) }
	}

	results, err := resolver.ResolveAll(ctx, books, p.cfg.Workers, progress)
	if err != nil {
		return nil, nil, fmt.Errorf("cover resolution interrupted: %w", err)
	}
	return results, resolver, nil
}
