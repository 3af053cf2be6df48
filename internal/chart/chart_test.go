package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func point(ts time.Time, v float64) domain.SeriesPoint {
	return domain.SeriesPoint{Timestamp: ts, Value: v}
}

func sampleSeries() []domain.SeriesPoint {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []domain.SeriesPoint{
		point(day.Add(8*time.Hour), 95),
		point(day.Add(12*time.Hour), 180),
		point(day.Add(18*time.Hour), 140),
		point(day.Add(42*time.Hour), 110),
	}
}

func TestGlucoseTrendProducesPNG(t *testing.T) {
	r := NewRenderer(time.UTC)
	chart, err := r.GlucoseTrend(sampleSeries(), 70, 140, "Glucose trend (mg/dL)")
	if err != nil {
		t.Fatalf("GlucoseTrend failed: %v", err)
	}
	if !bytes.HasPrefix(chart.PNG, pngMagic) {
		t.Error("output is not a PNG")
	}
	if chart.Width <= 0 || chart.Height <= 0 {
		t.Errorf("bad dimensions %dx%d", chart.Width, chart.Height)
	}
	if chart.Caption != "Glucose trend (mg/dL)" {
		t.Errorf("caption = %q", chart.Caption)
	}
}

func TestGlucoseTrendDeterministic(t *testing.T) {
	r := NewRenderer(time.UTC)
	first, err := r.GlucoseTrend(sampleSeries(), 70, 140, "Glucose trend (mg/dL)")
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	second, err := r.GlucoseTrend(sampleSeries(), 70, 140, "Glucose trend (mg/dL)")
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if !bytes.Equal(first.PNG, second.PNG) {
		t.Error("same series rendered to different bytes")
	}
}

func TestGlucoseTrendDegenerateSeries(t *testing.T) {
	r := NewRenderer(time.UTC)
	ts := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		series []domain.SeriesPoint
	}{
		{"empty series", nil},
		{"single point", []domain.SeriesPoint{point(ts, 120)}},
		{"identical values", []domain.SeriesPoint{point(ts, 120), point(ts.Add(time.Hour), 120)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart, err := r.GlucoseTrend(tt.series, 70, 140, "Glucose trend (mg/dL)")
			if err != nil {
				t.Fatalf("render failed: %v", err)
			}
			if !bytes.HasPrefix(chart.PNG, pngMagic) {
				t.Error("output is not a PNG")
			}
		})
	}
}

func TestDailyBars(t *testing.T) {
	r := NewRenderer(time.UTC)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	totals := []domain.DayTotal{
		{Day: day, Total: 95},
		{Day: day.AddDate(0, 0, 2), Total: 70},
	}

	chart, err := r.DailyBars(totals, "Carbs per day (g)")
	if err != nil {
		t.Fatalf("DailyBars failed: %v", err)
	}
	if !bytes.HasPrefix(chart.PNG, pngMagic) {
		t.Error("output is not a PNG")
	}

	again, err := r.DailyBars(totals, "Carbs per day (g)")
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if !bytes.Equal(chart.PNG, again.PNG) {
		t.Error("same totals rendered to different bytes")
	}
}

func TestDailyBarsEmpty(t *testing.T) {
	r := NewRenderer(time.UTC)
	chart, err := r.DailyBars(nil, "Carbs per day (g)")
	if err != nil {
		t.Fatalf("empty totals must render a placeholder, not fail: %v", err)
	}
	if !bytes.HasPrefix(chart.PNG, pngMagic) {
		t.Error("output is not a PNG")
	}
}
