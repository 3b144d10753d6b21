package infra

// pdf.go renders report datasets as a one-page bar chart with go-pdf/fpdf.
// Layout: title, generation timestamp, one horizontal bar per label scaled to
// the largest value, and the numeric value printed at the end of each bar.

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// BarChartRow is one labelled bar.
type BarChartRow struct {
	Label string
	Value float64
	Text  string // printed value; defaults to %.2f of Value
}

// WriteBarChartPDF writes an A4 portrait bar chart to w.
func WriteBarChartPDF(w io.Writer, title string, generatedAt time.Time, rows []BarChartRow) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// core fonts are cp1252; product names arrive as UTF-8
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Generated "+generatedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(contentW, 8, "No data.", "", 1, "L", false, 0, "")
		return pdf.Output(w)
	}

	maxVal := 0.0
	for _, r := range rows {
		if r.Value > maxVal {
			maxVal = r.Value
		}
	}

	labelW := contentW * 0.30
	valueW := contentW * 0.15
	barMax := contentW - labelW - valueW
	const rowH = 7.0

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetFillColor(70, 130, 180)
	for _, r := range rows {
		if pdf.GetY()+rowH > 280 {
			pdf.AddPage()
		}
		x, y := pdf.GetX(), pdf.GetY()
		pdf.CellFormat(labelW, rowH, tr(truncateLabel(r.Label, 32)), "", 0, "L", false, 0, "")

		barW := 0.0
		if maxVal > 0 && r.Value > 0 {
			barW = barMax * r.Value / maxVal
		}
		if barW > 0 {
			pdf.Rect(x+labelW, y+1, barW, rowH-2, "F")
		}

		text := r.Text
		if text == "" {
			text = fmt.Sprintf("%.2f", r.Value)
		}
		pdf.SetXY(x+labelW+barMax, y)
		pdf.CellFormat(valueW, rowH, text, "", 1, "R", false, 0, "")
	}

	return pdf.Output(w)
}

// truncateLabel shortens s to at most n runes, marking the cut with "~".
func truncateLabel(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "~"
}
