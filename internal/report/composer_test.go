package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/chart"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/domain"
)

func f(v float64) *float64 { return &v }

func testRequest() domain.ReportRequest {
	return domain.ReportRequest{
		ChatID:     1,
		Start:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		TargetLow:  70,
		TargetHigh: 140,
	}
}

func testSummary() domain.StatSummary {
	return domain.StatSummary{
		EntryCount:        3,
		GlucoseCount:      3,
		MeanMgdl:          f(138.33),
		StdDevMgdl:        f(42.5),
		MinMgdl:           f(95),
		MaxMgdl:           f(180),
		TimeInRange:       &domain.RangeBreakdown{Below: 0, In: 2.0 / 3.0, Above: 1.0 / 3.0},
		TotalCarbsG:       90,
		TotalInsulinUnits: 10.5,
	}
}

func testEntries() []domain.DiaryEntry {
	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return []domain.DiaryEntry{
		{
			ID: 1, ChatID: 1, Author: "alice", Timestamp: ts,
			GlucoseMgdl: f(95), CarbsG: f(45), InsulinUnits: f(6.5),
			InsulinKind: domain.InsulinBolus, Note: "breakfast",
		},
		{
			ID: 2, ChatID: 1, Author: "alice", Timestamp: ts.Add(4 * time.Hour),
			GlucoseMgdl: f(180),
		},
	}
}

func renderCharts(t *testing.T) []domain.RenderedChart {
	t.Helper()
	r := chart.NewRenderer(time.UTC)
	trend, err := r.GlucoseTrend([]domain.SeriesPoint{
		{Timestamp: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), Value: 95},
		{Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), Value: 180},
	}, 70, 140, "Glucose trend (mg/dL)")
	if err != nil {
		t.Fatalf("chart render failed: %v", err)
	}
	return []domain.RenderedChart{trend}
}

func TestComposeProducesPDF(t *testing.T) {
	c := NewComposer(time.UTC)
	doc, err := c.Compose(testRequest(), testSummary(), renderCharts(t), testEntries())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
	if len(doc) < 1000 {
		t.Errorf("document suspiciously small: %d bytes", len(doc))
	}
}

func TestComposeDeterministic(t *testing.T) {
	c := NewComposer(time.UTC)
	charts := renderCharts(t)

	first, err := c.Compose(testRequest(), testSummary(), charts, testEntries())
	if err != nil {
		t.Fatalf("first compose failed: %v", err)
	}
	// Object emission order must not depend on map iteration, so a
	// single re-render is not enough to trust.
	for i := 0; i < 5; i++ {
		again, err := c.Compose(testRequest(), testSummary(), charts, testEntries())
		if err != nil {
			t.Fatalf("compose %d failed: %v", i+2, err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("compose %d produced different bytes", i+2)
		}
	}
}

func TestComposeEmptyWindow(t *testing.T) {
	c := NewComposer(time.UTC)
	// No entries, no charts, all scalars undefined. The document still
	// renders, with explicit placeholders instead of zeros.
	doc, err := c.Compose(testRequest(), domain.StatSummary{}, nil, nil)
	if err != nil {
		t.Fatalf("Compose failed on empty window: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}

	// The empty-window variant mixes regular, bold and oblique faces;
	// regenerating it must still be byte-stable.
	again, err := c.Compose(testRequest(), domain.StatSummary{}, nil, nil)
	if err != nil {
		t.Fatalf("second compose failed: %v", err)
	}
	if !bytes.Equal(doc, again) {
		t.Error("empty-window document changed between regenerations")
	}
}

func TestComposeNonLatinNote(t *testing.T) {
	c := NewComposer(time.UTC)
	entries := testEntries()
	entries[0].Note = "завтрак, 45 g"
	entries[0].Author = "Алиса"

	if _, err := c.Compose(testRequest(), testSummary(), nil, entries); err != nil {
		t.Fatalf("Compose failed on non-latin text: %v", err)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatScalar(nil, "%.1f"); got != "insufficient data" {
		t.Errorf("formatScalar(nil) = %q", got)
	}
	if got := formatScalar(f(138.333), "%.1f"); got != "138.3" {
		t.Errorf("formatScalar = %q, want 138.3", got)
	}
	if got := formatFraction(nil, func(b domain.RangeBreakdown) float64 { return b.In }); got != "insufficient data" {
		t.Errorf("formatFraction(nil) = %q", got)
	}
}

func TestClip(t *testing.T) {
	if got := clip("short", 10); got != "short" {
		t.Errorf("clip = %q", got)
	}
	long := strings.Repeat("a", 50)
	got := clip(long, 10)
	if len([]rune(got)) > 13 || !strings.HasSuffix(got, "...") {
		t.Errorf("clip = %q, want 10 runes plus ellipsis", got)
	}
}
