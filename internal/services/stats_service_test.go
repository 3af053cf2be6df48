package services

import (
	"math"
	"testing"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/domain"
)

func entryAt(ts time.Time, glucose, carbs, insulin *float64) domain.DiaryEntry {
	return domain.DiaryEntry{
		ChatID:       1,
		Timestamp:    ts,
		GlucoseMgdl:  glucose,
		CarbsG:       carbs,
		InsulinUnits: insulin,
	}
}

func f(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarizeTimeInRange(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []domain.DiaryEntry{
		entryAt(day.Add(8*time.Hour), f(95), nil, nil),
		entryAt(day.Add(12*time.Hour), f(180), nil, nil),
		entryAt(day.Add(18*time.Hour), f(140), nil, nil),
	}

	svc := NewStatsService(time.UTC)
	summary := svc.Summarize(entries, 70, 140)

	if summary.EntryCount != 3 || summary.GlucoseCount != 3 {
		t.Fatalf("counts = %d/%d, want 3/3", summary.EntryCount, summary.GlucoseCount)
	}
	tir := summary.TimeInRange
	if tir == nil {
		t.Fatal("TimeInRange is nil")
	}
	// 95 and 140 are inside the inclusive band, 180 above.
	if !almostEqual(tir.In, 2.0/3.0) || !almostEqual(tir.Above, 1.0/3.0) || tir.Below != 0 {
		t.Errorf("breakdown = %+v, want below 0, in 2/3, above 1/3", *tir)
	}
	if !almostEqual(tir.Below+tir.In+tir.Above, 1) {
		t.Errorf("fractions do not sum to 1: %+v", *tir)
	}
	if summary.MeanMgdl == nil || !almostEqual(*summary.MeanMgdl, (95.0+180.0+140.0)/3.0) {
		t.Errorf("mean = %v", summary.MeanMgdl)
	}
	if summary.MinMgdl == nil || *summary.MinMgdl != 95 {
		t.Errorf("min = %v, want 95", summary.MinMgdl)
	}
	if summary.MaxMgdl == nil || *summary.MaxMgdl != 180 {
		t.Errorf("max = %v, want 180", summary.MaxMgdl)
	}
}

func TestSummarizeSampleStdDev(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []domain.DiaryEntry{
		entryAt(day.Add(1*time.Hour), f(100), nil, nil),
		entryAt(day.Add(2*time.Hour), f(120), nil, nil),
	}

	summary := NewStatsService(time.UTC).Summarize(entries, 70, 140)

	// Sample deviation with n-1: sqrt((10^2 + 10^2) / 1).
	want := math.Sqrt(200)
	if summary.StdDevMgdl == nil || !almostEqual(*summary.StdDevMgdl, want) {
		t.Errorf("stddev = %v, want %v", summary.StdDevMgdl, want)
	}
}

func TestSummarizeInsufficientData(t *testing.T) {
	svc := NewStatsService(time.UTC)

	empty := svc.Summarize(nil, 70, 140)
	if empty.MeanMgdl != nil || empty.StdDevMgdl != nil || empty.MinMgdl != nil ||
		empty.MaxMgdl != nil || empty.TimeInRange != nil {
		t.Errorf("empty window must leave all scalars nil: %+v", empty)
	}
	if empty.TotalCarbsG != 0 || empty.TotalInsulinUnits != 0 {
		t.Errorf("totals should be zero on empty window")
	}

	one := svc.Summarize([]domain.DiaryEntry{
		entryAt(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), f(110), nil, nil),
	}, 70, 140)
	if one.MeanMgdl == nil || one.MinMgdl == nil || one.MaxMgdl == nil || one.TimeInRange == nil {
		t.Error("single reading defines mean, min, max and time in range")
	}
	if one.StdDevMgdl != nil {
		t.Error("single reading cannot define a deviation")
	}
}

func TestSummarizeIgnoresMissingFields(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []domain.DiaryEntry{
		entryAt(day.Add(8*time.Hour), nil, f(30), f(4)),
		entryAt(day.Add(13*time.Hour), f(125), f(60), nil),
		{ChatID: 1, Timestamp: day.Add(20 * time.Hour), Note: "evening walk"},
	}

	summary := NewStatsService(time.UTC).Summarize(entries, 70, 140)

	if summary.EntryCount != 3 {
		t.Errorf("EntryCount = %d, want 3", summary.EntryCount)
	}
	if summary.GlucoseCount != 1 {
		t.Errorf("GlucoseCount = %d, want 1", summary.GlucoseCount)
	}
	if summary.TotalCarbsG != 90 {
		t.Errorf("TotalCarbsG = %v, want 90", summary.TotalCarbsG)
	}
	if summary.TotalInsulinUnits != 4 {
		t.Errorf("TotalInsulinUnits = %v, want 4", summary.TotalInsulinUnits)
	}
	if len(summary.GlucoseSeries) != 1 {
		t.Errorf("series length = %d, want 1", len(summary.GlucoseSeries))
	}
}

func TestSummarizeDailyBuckets(t *testing.T) {
	entries := []domain.DiaryEntry{
		entryAt(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), nil, f(40), nil),
		entryAt(time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC), nil, f(55), f(6)),
		entryAt(time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC), nil, f(70), f(3)),
	}

	summary := NewStatsService(time.UTC).Summarize(entries, 70, 140)

	if len(summary.CarbsPerDay) != 2 {
		t.Fatalf("CarbsPerDay length = %d, want 2 (gap day has no bar)", len(summary.CarbsPerDay))
	}
	first, second := summary.CarbsPerDay[0], summary.CarbsPerDay[1]
	if !first.Day.Before(second.Day) {
		t.Error("days not sorted ascending")
	}
	if first.Total != 95 || second.Total != 70 {
		t.Errorf("totals = %v, %v; want 95, 70", first.Total, second.Total)
	}
	if len(summary.InsulinUnitsPerDay) != 2 {
		t.Errorf("InsulinUnitsPerDay length = %d, want 2", len(summary.InsulinUnitsPerDay))
	}
}

func TestSummarizeDayBoundaryFollowsTimezone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 23:30 UTC on March 1st is already March 2nd in Berlin (UTC+1).
	late := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	entries := []domain.DiaryEntry{entryAt(late, nil, f(20), nil)}

	summary := NewStatsService(berlin).Summarize(entries, 70, 140)
	if len(summary.CarbsPerDay) != 1 {
		t.Fatalf("CarbsPerDay length = %d, want 1", len(summary.CarbsPerDay))
	}
	day := summary.CarbsPerDay[0].Day
	if day.Day() != 2 || day.Month() != time.March {
		t.Errorf("bucketed into %v, want March 2nd local day", day)
	}
}
