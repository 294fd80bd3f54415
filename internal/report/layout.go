// file: internal/report/layout.go
// version: 1.0.0
// guid: 8d2c6e4a-0b7f-4a19-b3d5-e6f1c9a2847b

package report

// GridLayout describes the thumbnail grid on a portrait page, in mm.
type GridLayout struct {
	PageWidth     float64
	PageHeight    float64
	Margin        float64
	Top           float64 // first usable y below the header
	Bottom        float64 // last usable y above the footer
	Columns       int
	Gap           float64
	CaptionHeight float64
}

// Slot is one thumbnail position. Page counts from 0 within the grid.
type Slot struct {
	Page   int
	Row    int
	Column int
	X, Y   float64
	Width  float64
	Height float64
}

// DefaultGridLayout fits four covers per row on A4.
func DefaultGridLayout() GridLayout {
	return GridLayout{
		PageWidth:     210,
		PageHeight:    297,
		Margin:        15,
		Top:           30,
		Bottom:        275,
		Columns:       4,
		Gap:           6,
		CaptionHeight: 16,
	}
}

// ThumbSize returns the cover width and height. Covers keep a 2:3 ratio.
func (g GridLayout) ThumbSize() (w, h float64) {
	cols := max(g.Columns, 1)
	w = (g.PageWidth - 2*g.Margin - float64(cols-1)*g.Gap) / float64(cols)
	return w, w * 1.5
}

// RowsPerPage is how many grid rows fit between Top and Bottom.
func (g GridLayout) RowsPerPage() int {
	_, h := g.ThumbSize()
	rowHeight := h + g.CaptionHeight + g.Gap
	rows := int((g.Bottom - g.Top + g.Gap) / rowHeight)
	return max(rows, 1)
}

// Plan places n thumbnails in reading order: left to right, top to
// bottom, then onto the next page.
func (g GridLayout) Plan(n int) []Slot {
	cols := max(g.Columns, 1)
	rows := g.RowsPerPage()
	perPage := cols * rows
	w, h := g.ThumbSize()
	rowHeight := h + g.CaptionHeight + g.Gap

	slots := make([]Slot, n)
	for i := range slots {
		page := i / perPage
		row := (i % perPage) / cols
		col := i % cols
		slots[i] = Slot{
			Page:   page,
			Row:    row,
			Column: col,
			X:      g.Margin + float64(col)*(w+g.Gap),
			Y:      g.Top + float64(row)*rowHeight,
			Width:  w,
			Height: h,
		}
	}
	return slots
}

// Pages returns how many grid pages n thumbnails need.
func (g GridLayout) Pages(n int) int {
	if n == 0 {
		return 0
	}
	perPage := max(g.Columns, 1) * g.RowsPerPage()
	return (n + perPage - 1) / perPage
}
