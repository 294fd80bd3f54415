// file: internal/report/renderer.go
// version: 1.1.0
// guid: 3c5f8a12-7d4e-4b96-a1c0-9e2b6d8f4a73

// Package report renders the PDF reading report and the missing-covers
// listing.
package report

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/jdfalk/reading-report/internal/covers"
	"github.com/jdfalk/reading-report/internal/library"
	"github.com/jdfalk/reading-report/internal/logger"
	"github.com/jdfalk/reading-report/internal/metrics"
	"github.com/jdfalk/reading-report/internal/stats"
)

// DefaultTitle is printed on the title page and in every page header.
const DefaultTitle = "Goodreads Reading Report"

// Input is everything one report is built from. Covers is index-aligned
// with Books.
type Input struct {
	Books       []library.Book
	Covers      []covers.CoverResult
	Years       []stats.YearStat
	Summary     stats.Summary
	GeneratedAt time.Time
}

// Thumbnail records where a book's cover was placed.
type Thumbnail struct {
	Index       int
	BookKey     string
	Page        int // 1-based PDF page
	Slot        Slot
	Source      covers.SourceKind
	Substituted bool
}

// Result describes a rendered document.
type Result struct {
	Pages         int
	GridPages     int // pages holding the thumbnail grid
	Thumbnails    []Thumbnail
	Substitutions int
}

// Renderer builds the PDF report.
type Renderer struct {
	title  string
	layout GridLayout
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithTitle overrides the report title.
func WithTitle(title string) RendererOption {
	return func(r *Renderer) {
		if title != "" {
			r.title = title
		}
	}
}

// NewRenderer creates a renderer with the A4 defaults.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		title:  DefaultTitle,
		layout: DefaultGridLayout(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the report to w. A cover that cannot be embedded is
// replaced by a generated placeholder; only document-level failures are
// returned.
func (r *Renderer) Render(w io.Writer, in Input) (*Result, error) {
	if len(in.Covers) != len(in.Books) {
		return nil, fmt.Errorf("got %d covers for %d books", len(in.Covers), len(in.Books))
	}
	generated := in.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	lay := r.layout
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(generated)
	pdf.SetModificationDate(generated)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(r.title, true)
	pdf.SetCreator("reading-report", false)
	pdf.SetMargins(lay.Margin, lay.Top, lay.Margin)
	pdf.SetAutoPageBreak(true, lay.PageHeight-lay.Bottom)
	pdf.SetHeaderFunc(func() { r.drawHeader(pdf) })
	pdf.SetFooterFunc(func() { r.drawFooter(pdf) })

	r.drawTitlePage(pdf, in, generated)
	r.drawSummary(pdf, in)
	r.drawCharts(pdf, in.Years)
	result := &Result{GridPages: r.layout.Pages(len(in.Books))}
	r.drawThumbnails(pdf, in, result)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build PDF: %w", err)
	}
	result.Pages = pdf.PageNo()
	if err := pdf.Output(w); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return result, nil
}

func (r *Renderer) drawHeader(pdf *fpdf.Fpdf) {
	lay := r.layout
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Rect(5, 5, lay.PageWidth-10, lay.PageHeight-10, "D")
	pdf.SetLineWidth(0.2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetXY(lay.Margin, 10)
	pdf.CellFormat(lay.PageWidth-2*lay.Margin, 6, encodeText(r.title), "", 0, "C", false, 0, "")
	pdf.Line(lay.Margin, 18, lay.PageWidth-lay.Margin, 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(lay.Margin, lay.Top)
}

func (r *Renderer) drawFooter(pdf *fpdf.Fpdf) {
	pdf.SetY(-15)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 10, "Page "+strconv.Itoa(pdf.PageNo()), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func (r *Renderer) drawTitlePage(pdf *fpdf.Fpdf, in Input, generated time.Time) {
	pdf.AddPage()
	pdf.SetY(100)
	pdf.SetFont("Helvetica", "B", 28)
	pdf.CellFormat(0, 14, encodeText(r.title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 10, encodeText(fmt.Sprintf("%d books, %d pages", in.Summary.TotalBooks, in.Summary.TotalPages)), "", 1, "C", false, 0, "")
	if in.Summary.FirstYear > 0 {
		span := strconv.Itoa(in.Summary.FirstYear)
		if in.Summary.LastYear != in.Summary.FirstYear {
			span += " - " + strconv.Itoa(in.Summary.LastYear)
		}
		pdf.CellFormat(0, 10, "Reading history "+span, "", 1, "C", false, 0, "")
	}

	pdf.Ln(20)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 8, "Generated on "+generated.Format("January 2, 2006"), "", 1, "C", false, 0, "")
}

func (r *Renderer) drawSummary(pdf *fpdf.Fpdf, in Input) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Reading Summary", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	s := in.Summary
	rows := [][2]string{
		{"Total books", strconv.Itoa(s.TotalBooks)},
		{"Books with a read date", strconv.Itoa(s.DatedBooks)},
		{"Total pages", strconv.Itoa(s.TotalPages)},
		{"Rated books", strconv.Itoa(s.RatedBooks)},
	}
	if s.RatedBooks > 0 {
		rows = append(rows, [2]string{"Average rating", strconv.FormatFloat(s.AverageRating, 'f', 2, 64)})
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.CellFormat(70, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, row[1], "", 1, "R", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, "Books and Pages by Year", "", 1, "L", false, 0, "")
	if len(in.Years) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 7, "No books have a read date.", "", 1, "L", false, 0, "")
		return
	}

	widths := []float64{40, 50, 50}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Year", "Books Read", "Pages Read"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, y := range in.Years {
		pdf.CellFormat(widths[0], 7, strconv.Itoa(y.Year), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, strconv.Itoa(y.Books), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, strconv.Itoa(y.Pages), "1", 1, "R", false, 0, "")
	}
}

func (r *Renderer) drawCharts(pdf *fpdf.Fpdf, years []stats.YearStat) {
	pdf.AddPage()
	lay := r.layout

	labels := make([]string, len(years))
	books := make([]int, len(years))
	pages := make([]int, len(years))
	for i, y := range years {
		labels[i] = strconv.Itoa(y.Year)
		books[i] = y.Books
		pages[i] = y.Pages
	}

	maxBooks, maxPages := stats.Max(years)
	width := lay.PageWidth - 2*lay.Margin
	panelHeight := (lay.Bottom - lay.Top - 10) / 2
	drawBarChart(pdf, lay.Margin, lay.Top, width, panelHeight, barSeries{
		Title:  "Books Read per Year",
		Labels: labels,
		Values: books,
		Max:    maxBooks,
		Color:  booksColor,
	})
	drawBarChart(pdf, lay.Margin, lay.Top+panelHeight+10, width, panelHeight, barSeries{
		Title:  "Pages Read per Year",
		Labels: labels,
		Values: pages,
		Max:    maxPages,
		Color:  pagesColor,
	})
}

func (r *Renderer) drawThumbnails(pdf *fpdf.Fpdf, in Input, result *Result) {
	if len(in.Books) == 0 {
		return
	}
	// The grid paginates itself.
	pdf.SetAutoPageBreak(false, 0)
	defer pdf.SetAutoPageBreak(true, r.layout.PageHeight-r.layout.Bottom)

	currentPage := -1
	for i, slot := range r.layout.Plan(len(in.Books)) {
		if slot.Page != currentPage {
			pdf.AddPage()
			currentPage = slot.Page
		}
		book := in.Books[i]
		cover := in.Covers[i]

		data, substituted := usableCover(book, cover)
		if substituted {
			result.Substitutions++
			metrics.IncRenderSubstitution()
		}
		name := "cover-" + strconv.Itoa(i)
		opts := fpdf.ImageOptions{ImageType: "JPG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		pdf.ImageOptions(name, slot.X, slot.Y, slot.Width, slot.Height, false, opts, 0, "")
		r.drawCaption(pdf, book, slot)

		result.Thumbnails = append(result.Thumbnails, Thumbnail{
			Index:       i,
			BookKey:     book.Key(),
			Page:        pdf.PageNo(),
			Slot:        slot,
			Source:      cover.Source,
			Substituted: substituted,
		})
	}
}

func (r *Renderer) drawCaption(pdf *fpdf.Fpdf, book library.Book, slot Slot) {
	const lineHeight = 3.2
	measure := func(s string) float64 { return pdf.GetStringWidth(s) }

	y := slot.Y + slot.Height + 1
	pdf.SetFont("Helvetica", "B", 7)
	for _, line := range fitLines(book.Title, slot.Width, 2, measure) {
		pdf.SetXY(slot.X, y)
		pdf.CellFormat(slot.Width, lineHeight, encodeText(line), "", 0, "C", false, 0, "")
		y += lineHeight
	}

	pdf.SetFont("Helvetica", "", 6.5)
	var details []string
	if book.Author != "" {
		details = append(details, fitLines("by "+book.Author, slot.Width, 1, measure)...)
	}
	info := ""
	if book.Pages > 0 {
		info = strconv.Itoa(book.Pages) + " pages"
	}
	if book.DateRead != nil {
		if info != "" {
			info += ", "
		}
		info += "read " + book.DateRead.Format("2006-01-02")
	}
	if info != "" {
		details = append(details, fitLines(info, slot.Width, 1, measure)...)
	}
	for _, line := range details {
		pdf.SetXY(slot.X, y)
		pdf.CellFormat(slot.Width, lineHeight, encodeText(line), "", 0, "C", false, 0, "")
		y += lineHeight
	}
}

// usableCover returns JPEG bytes the PDF writer can embed, substituting a
// placeholder when the resolved image does not decode.
func usableCover(book library.Book, cover covers.CoverResult) ([]byte, bool) {
	if len(cover.Image) == 0 {
		logger.Warnf("cover for %q is empty, substituting placeholder", book.Title)
	} else if _, err := jpeg.Decode(bytes.NewReader(cover.Image)); err != nil {
		logger.Warnf("cover for %q is unusable, substituting placeholder: %v", book.Title, err)
	} else {
		return cover.Image, false
	}
	return covers.GeneratePlaceholder(covers.PlaceholderSpec{
		Title:         book.Title,
		Author:        book.Author,
		YearPublished: book.YearPublished,
	}), true
}
