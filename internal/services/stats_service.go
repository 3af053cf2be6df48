package services

import (
	"math"
	"sort"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/domain"
)

// StatsService computes derived glycemic metrics over a window of
// entries. It is pure and CPU-bound: every invocation owns its inputs
// and outputs, so concurrent report handlers need no locking here.
type StatsService struct {
	location *time.Location
}

// NewStatsService creates a stats engine bucketing per-day aggregates
// in the given timezone. All window comparisons happen on absolute
// instants; the timezone only shapes day boundaries for the bar series.
func NewStatsService(location *time.Location) *StatsService {
	if location == nil {
		location = time.UTC
	}
	return &StatsService{location: location}
}

// Summarize derives the per-window summary from entries, which must be
// in the ascending store order. Glucose scalars stay nil when too few
// readings exist: a missing metric is "insufficient data", never zero.
func (s *StatsService) Summarize(entries []domain.DiaryEntry, targetLow, targetHigh float64) domain.StatSummary {
	summary := domain.StatSummary{EntryCount: len(entries)}

	var glucose []float64
	for _, entry := range entries {
		if entry.GlucoseMgdl != nil {
			value := *entry.GlucoseMgdl
			glucose = append(glucose, value)
			summary.GlucoseSeries = append(summary.GlucoseSeries, domain.SeriesPoint{
				Timestamp: entry.Timestamp,
				Value:     value,
			})
		}
		if entry.CarbsG != nil {
			summary.TotalCarbsG += *entry.CarbsG
		}
		if entry.InsulinUnits != nil {
			summary.TotalInsulinUnits += *entry.InsulinUnits
		}
	}
	summary.GlucoseCount = len(glucose)

	if len(glucose) >= 1 {
		summary.MeanMgdl = ptr(mean(glucose))
		summary.MinMgdl = ptr(minOf(glucose))
		summary.MaxMgdl = ptr(maxOf(glucose))
		summary.TimeInRange = ptr(rangeBreakdown(glucose, targetLow, targetHigh))
	}
	if len(glucose) >= 2 {
		summary.StdDevMgdl = ptr(sampleStdDev(glucose, *summary.MeanMgdl))
	}

	summary.CarbsPerDay = s.dailyTotals(entries, func(e domain.DiaryEntry) *float64 { return e.CarbsG })
	summary.InsulinUnitsPerDay = s.dailyTotals(entries, func(e domain.DiaryEntry) *float64 { return e.InsulinUnits })

	return summary
}

func rangeBreakdown(values []float64, low, high float64) domain.RangeBreakdown {
	var below, in, above int
	for _, v := range values {
		switch {
		case v < low:
			below++
		case v > high:
			above++
		default:
			in++
		}
	}
	total := float64(len(values))
	return domain.RangeBreakdown{
		Below: float64(below) / total,
		In:    float64(in) / total,
		Above: float64(above) / total,
	}
}

// dailyTotals buckets one optional field per local day. Days without a
// value for the field are absent from the result, not zero bars.
func (s *StatsService) dailyTotals(entries []domain.DiaryEntry, field func(domain.DiaryEntry) *float64) []domain.DayTotal {
	byDay := make(map[time.Time]float64)
	for _, entry := range entries {
		value := field(entry)
		if value == nil {
			continue
		}
		local := entry.Timestamp.In(s.location)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
		byDay[day] += *value
	}

	totals := make([]domain.DayTotal, 0, len(byDay))
	for day, total := range byDay {
		totals = append(totals, domain.DayTotal{Day: day, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Day.Before(totals[j].Day) })
	return totals
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev uses the n-1 denominator; callers guarantee len >= 2.
func sampleStdDev(values []float64, mean float64) float64 {
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func ptr[T any](v T) *T {
	return &v
}
