// Package report assembles computed statistics, rendered charts and the
// raw entry log into a paginated PDF. Section order is fixed: header and
// metadata, summary statistics, charts, entry log appendix. A section
// with nothing to show renders an explicit placeholder instead of being
// silently omitted, so page structure stays predictable across requests.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/domain"
	apperrors "github.com/camilaavilarinho/diabetes-diary-bot/internal/errors"
	"github.com/go-pdf/fpdf"
)

const (
	insufficientData = "insufficient data"
	timestampLayout  = "2006-01-02 15:04"
)

// Fixed document metadata date: regenerating a report over the same
// window must produce byte-identical output.
var fixedDocDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Composer renders report documents.
type Composer struct {
	location *time.Location
}

// NewComposer creates a composer formatting timestamps in the given timezone.
func NewComposer(location *time.Location) *Composer {
	if location == nil {
		location = time.UTC
	}
	return &Composer{location: location}
}

// Compose builds the document for one report request. The entries slice
// is the full requested window in store order and feeds the appendix
// verbatim, whether or not summary statistics were computable.
func (c *Composer) Compose(req domain.ReportRequest, summary domain.StatSummary, charts []domain.RenderedChart, entries []domain.DiaryEntry) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	// Catalog entries (fonts included) are emitted from maps; sort them
	// so the same inputs always serialize to the same bytes.
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(fixedDocDate)
	pdf.SetModificationDate(fixedDocDate)
	pdf.SetTitle("Diabetes Diary Report", false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 18)

	c.writeHeader(pdf, req)
	c.writeSummaryTable(pdf, summary)
	c.writeCharts(pdf, charts)
	c.writeAppendix(pdf, entries)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.NewRenderError(err, "document")
	}
	return buf.Bytes(), nil
}

func (c *Composer) writeHeader(pdf *fpdf.Fpdf, req domain.ReportRequest) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Diabetes Diary Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	period := fmt.Sprintf("Report period: %s to %s (end exclusive)",
		req.Start.In(c.location).Format(timestampLayout),
		req.End.In(c.location).Format(timestampLayout))
	pdf.CellFormat(0, 6, period, "", 1, "L", false, 0, "")
	target := fmt.Sprintf("Target range: %.0f-%.0f mg/dL", req.TargetLow, req.TargetHigh)
	pdf.CellFormat(0, 6, target, "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (c *Composer) writeSummaryTable(pdf *fpdf.Fpdf, summary domain.StatSummary) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Summary statistics", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	rows := [][2]string{
		{"Entries in window", fmt.Sprintf("%d", summary.EntryCount)},
		{"Glucose readings", fmt.Sprintf("%d", summary.GlucoseCount)},
		{"Mean glucose", formatScalar(summary.MeanMgdl, "%.1f mg/dL")},
		{"Std deviation", formatScalar(summary.StdDevMgdl, "%.1f mg/dL")},
		{"Lowest reading", formatScalar(summary.MinMgdl, "%.0f mg/dL")},
		{"Highest reading", formatScalar(summary.MaxMgdl, "%.0f mg/dL")},
		{"Time in range", formatFraction(summary.TimeInRange, func(b domain.RangeBreakdown) float64 { return b.In })},
		{"Below range", formatFraction(summary.TimeInRange, func(b domain.RangeBreakdown) float64 { return b.Below })},
		{"Above range", formatFraction(summary.TimeInRange, func(b domain.RangeBreakdown) float64 { return b.Above })},
		{"Total carbs", fmt.Sprintf("%.0f g", summary.TotalCarbsG)},
		{"Total insulin", fmt.Sprintf("%.1f u", summary.TotalInsulinUnits)},
	}

	for _, row := range rows {
		pdf.CellFormat(60, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
}

func (c *Composer) writeCharts(pdf *fpdf.Fpdf, charts []domain.RenderedChart) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usableW := pageW - left - right

	for i, chart := range charts {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, chart.Caption, "", 1, "L", false, 0, "")

		name := fmt.Sprintf("chart-%d", i)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(chart.PNG))
		imgW := usableW
		imgH := imgW * float64(chart.Height) / float64(chart.Width)
		pdf.ImageOptions(name, left, pdf.GetY()+2, imgW, imgH, false, opts, 0, "")
	}
}

// writeAppendix lists every entry in the window verbatim, in store
// order. This is the audit-of-record section and must never be lossy.
func (c *Composer) writeAppendix(pdf *fpdf.Fpdf, entries []domain.DiaryEntry) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Entry log", "", 1, "L", false, 0, "")

	if len(entries) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 6, "no entries in selected period", "", 1, "L", false, 0, "")
		return
	}

	c.writeAppendixHeader(pdf)
	pdf.SetFont("Helvetica", "", 8)
	_, pageH := pdf.GetPageSize()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, entry := range entries {
		if pdf.GetY() > pageH-30 {
			pdf.AddPage()
			c.writeAppendixHeader(pdf)
			pdf.SetFont("Helvetica", "", 8)
		}
		pdf.CellFormat(14, 5, fmt.Sprintf("%d", entry.ID), "1", 0, "R", false, 0, "")
		pdf.CellFormat(32, 5, entry.Timestamp.In(c.location).Format(timestampLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(22, 5, formatOptional(entry.GlucoseMgdl, "%.0f"), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 5, formatOptional(entry.CarbsG, "%.0f"), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 5, formatOptional(entry.InsulinUnits, "%.1f"), "1", 0, "R", false, 0, "")
		pdf.CellFormat(18, 5, string(entry.InsulinKind), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, tr(clip(entry.Author, 24)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, tr(clip(entry.Note, 110)), "1", 1, "L", false, 0, "")
	}
}

func (c *Composer) writeAppendixHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(14, 5, "ID", "1", 0, "R", false, 0, "")
	pdf.CellFormat(32, 5, "Timestamp", "1", 0, "L", false, 0, "")
	pdf.CellFormat(22, 5, "Glucose", "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 5, "Carbs g", "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 5, "Insulin u", "1", 0, "R", false, 0, "")
	pdf.CellFormat(18, 5, "Kind", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 5, "By", "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Note", "1", 1, "L", false, 0, "")
}

func formatScalar(value *float64, format string) string {
	if value == nil {
		return insufficientData
	}
	return fmt.Sprintf(format, *value)
}

func formatFraction(breakdown *domain.RangeBreakdown, pick func(domain.RangeBreakdown) float64) string {
	if breakdown == nil {
		return insufficientData
	}
	return fmt.Sprintf("%.1f %%", pick(*breakdown)*100)
}

func formatOptional(value *float64, format string) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf(format, *value)
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "..."
}
