package domain

import (
	"time"
)

// InsulinKind tags an insulin dose as mealtime bolus or background basal.
type InsulinKind string

const (
	InsulinBolus InsulinKind = "bolus"
	InsulinBasal InsulinKind = "basal"
)

// RawEntry is one unvalidated diary submission as collected by the
// conversational front end. All measurement fields are the user's raw
// text; empty or "-" means the field was skipped.
type RawEntry struct {
	ChatID      int64
	Author      string
	Timestamp   string
	Glucose     string
	Carbs       string
	Insulin     string
	InsulinKind string
	Note        string
}

// DiaryEntry is the canonical, validated diary record. Entries are
// immutable once stored; removal is a tombstone, never an in-place edit.
type DiaryEntry struct {
	ID           uint
	ChatID       int64
	Author       string
	Timestamp    time.Time
	GlucoseMgdl  *float64
	CarbsG       *float64
	InsulinUnits *float64
	InsulinKind  InsulinKind
	Note         string
	Deleted      bool // set only on audit queries
}

// HasMeasurement reports whether the entry carries at least one numeric field.
func (e *DiaryEntry) HasMeasurement() bool {
	return e.GlucoseMgdl != nil || e.CarbsG != nil || e.InsulinUnits != nil
}

// ReportRequest selects a half-open window [Start, End) of one chat's
// entries and the sections to include. Start and End are absolute instants.
type ReportRequest struct {
	ChatID       int64
	Start        time.Time
	End          time.Time
	TargetLow    float64
	TargetHigh   float64
	IncludeTrend bool
	IncludeDaily bool
}

// SeriesPoint is one (timestamp, value) pair of a chart series.
type SeriesPoint struct {
	Timestamp time.Time
	Value     float64
}

// DayTotal is one per-day aggregate, bucketed in the report timezone.
type DayTotal struct {
	Day   time.Time // midnight in the report timezone
	Total float64
}

// RangeBreakdown holds the fraction of glucose readings below, inside and
// above the target band. The three fractions sum to 1.
type RangeBreakdown struct {
	Below float64
	In    float64
	Above float64
}

// StatSummary is the derived per-window summary. Scalars that cannot be
// computed from the available readings are nil, never zero: a report must
// show "insufficient data" rather than a fabricated all-clear value.
type StatSummary struct {
	EntryCount   int
	GlucoseCount int

	MeanMgdl    *float64
	StdDevMgdl  *float64
	MinMgdl     *float64
	MaxMgdl     *float64
	TimeInRange *RangeBreakdown

	TotalCarbsG        float64
	TotalInsulinUnits  float64
	GlucoseSeries      []SeriesPoint
	CarbsPerDay        []DayTotal
	InsulinUnitsPerDay []DayTotal
}

// RenderedChart is an owned PNG buffer plus its caption. It is consumed
// exactly once by the report composer.
type RenderedChart struct {
	PNG     []byte
	Caption string
	Width   int
	Height  int
}
