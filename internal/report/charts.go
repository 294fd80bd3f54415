// file: internal/report/charts.go
// version: 1.1.0
// guid: 6e0b4d83-5a1c-4f27-9d6e-2c8a7f3b1d40

package report

import (
	"strconv"

	"github.com/go-pdf/fpdf"
)

type rgb struct{ R, G, B int }

var (
	booksColor = rgb{70, 130, 180}  // steel blue
	pagesColor = rgb{46, 139, 87}   // sea green
	gridColor  = rgb{210, 210, 210} // light gray
	axisColor  = rgb{80, 80, 80}
)

// barSeries is one bar panel: a label and value per bar. Max is the
// largest value in Values.
type barSeries struct {
	Title  string
	Labels []string
	Values []int
	Max    int
	Color  rgb
}

// axisStep returns the integer gridline spacing for four gridlines that
// reach at least maxValue.
func axisStep(maxValue int) int {
	return max(1, (maxValue+3)/4)
}

// drawBarChart draws s as a vertical bar chart inside the box (x, y, w, h).
func drawBarChart(pdf *fpdf.Fpdf, x, y, w, h float64, s barSeries) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, 8, encodeText(s.Title), "", 0, "C", false, 0, "")

	if len(s.Values) == 0 || s.Max <= 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetXY(x, y+h/2)
		pdf.CellFormat(w, 6, "No dated books to chart", "", 0, "C", false, 0, "")
		return
	}

	const (
		axisLabelWidth = 16.0
		titleHeight    = 12.0
		xLabelHeight   = 8.0
	)
	plotLeft := x + axisLabelWidth
	plotRight := x + w
	plotTop := y + titleHeight
	plotBottom := y + h - xLabelHeight
	plotHeight := plotBottom - plotTop

	step := axisStep(s.Max)
	axisMax := step * 4

	pdf.SetLineWidth(0.1)
	pdf.SetFont("Helvetica", "", 7)
	for i := 0; i <= 4; i++ {
		value := step * i
		gy := plotBottom - plotHeight*float64(i)/4
		pdf.SetDrawColor(gridColor.R, gridColor.G, gridColor.B)
		pdf.Line(plotLeft, gy, plotRight, gy)
		pdf.SetXY(x, gy-2)
		pdf.CellFormat(axisLabelWidth-2, 4, strconv.Itoa(value), "", 0, "R", false, 0, "")
	}

	pdf.SetDrawColor(axisColor.R, axisColor.G, axisColor.B)
	pdf.SetLineWidth(0.3)
	pdf.Line(plotLeft, plotTop, plotLeft, plotBottom)
	pdf.Line(plotLeft, plotBottom, plotRight, plotBottom)

	slot := (plotRight - plotLeft) / float64(len(s.Values))
	barWidth := slot * 0.7
	labelSize := 8.0
	if len(s.Values) > 12 {
		labelSize = 6
	}

	pdf.SetFillColor(s.Color.R, s.Color.G, s.Color.B)
	for i, v := range s.Values {
		barHeight := plotHeight * float64(v) / float64(axisMax)
		bx := plotLeft + float64(i)*slot + (slot-barWidth)/2
		by := plotBottom - barHeight
		if barHeight > 0 {
			pdf.Rect(bx, by, barWidth, barHeight, "F")
		}

		pdf.SetFont("Helvetica", "", labelSize-1)
		pdf.SetXY(bx-slot*0.15, by-4)
		pdf.CellFormat(barWidth+slot*0.3, 4, strconv.Itoa(v), "", 0, "C", false, 0, "")

		if i < len(s.Labels) {
			pdf.SetFont("Helvetica", "", labelSize)
			pdf.SetXY(plotLeft+float64(i)*slot, plotBottom+1)
			pdf.CellFormat(slot, 5, encodeText(s.Labels[i]), "", 0, "C", false, 0, "")
		}
	}
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(0, 0, 0)
}
