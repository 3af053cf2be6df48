// Package validator turns one raw diary submission into a canonical
// record or a field-specific rejection. It is pure: no clock reads, no
// storage access; the caller supplies "now" and the user's timezone.
package validator

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/domain"
	apperrors "github.com/camilaavilarinho/diabetes-diary-bot/internal/errors"
)

// Sanity ceilings. Values beyond these indicate a transcription error,
// not real data, and are rejected so the user can re-enter them.
const (
	MaxGlucoseMgdl  = 1000
	MaxCarbsG       = 1000
	MaxInsulinUnits = 200
	MaxNoteRunes    = 2000
)

// Field names reported back to the front end on rejection.
const (
	FieldTimestamp   = "timestamp"
	FieldGlucose     = "glucose"
	FieldCarbs       = "carbs"
	FieldInsulin     = "insulin"
	FieldInsulinKind = "insulin_kind"
	FieldNote        = "note"
)

// timestampLayouts are the accepted explicit timestamp formats, tried in
// order. Layouts without a zone are interpreted in the user's timezone.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
}

// unitSuffixes are stripped from numeric input before parsing, so
// "120 mg/dL" or "45g" read as plain numbers.
var unitSuffixes = []string{"mg/dl", "mgdl", "mg", "grams", "gram", "gr", "g", "units", "unit", "un", "u"}

// Validate normalizes one raw submission into a canonical entry.
// It rejects negative, non-finite and implausibly large measurements,
// unparseable timestamps, and entries carrying no data at all.
func Validate(raw domain.RawEntry, now time.Time, loc *time.Location) (domain.DiaryEntry, error) {
	ts, err := ParseTimestamp(raw.Timestamp, now, loc)
	if err != nil {
		return domain.DiaryEntry{}, err
	}

	glucose, err := ParseGlucose(raw.Glucose)
	if err != nil {
		return domain.DiaryEntry{}, err
	}

	carbs, err := ParseCarbs(raw.Carbs)
	if err != nil {
		return domain.DiaryEntry{}, err
	}

	insulin, err := ParseInsulin(raw.Insulin)
	if err != nil {
		return domain.DiaryEntry{}, err
	}

	kind := domain.InsulinKind("")
	if insulin != nil {
		kind, err = ParseInsulinKind(raw.InsulinKind)
		if err != nil {
			return domain.DiaryEntry{}, err
		}
	}

	note, err := ParseNote(raw.Note)
	if err != nil {
		return domain.DiaryEntry{}, err
	}

	entry := domain.DiaryEntry{
		ChatID:       raw.ChatID,
		Author:       strings.TrimSpace(raw.Author),
		Timestamp:    ts,
		GlucoseMgdl:  glucose,
		CarbsG:       carbs,
		InsulinUnits: insulin,
		InsulinKind:  kind,
		Note:         note,
	}

	if !entry.HasMeasurement() && entry.Note == "" {
		return domain.DiaryEntry{}, apperrors.NewValidationError(
			FieldNote, "entry is empty: add a glucose, carbs or insulin value, or a note")
	}

	return entry, nil
}

// ParseTimestamp parses an explicit timestamp or defaults to now in the
// user's timezone when the field was skipped.
func ParseTimestamp(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if skipped(trimmed) {
		return now.In(loc), nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return ts, nil
		}
	}
	// Bare time of day means today.
	if ts, err := time.ParseInLocation("15:04", trimmed, loc); err == nil {
		local := now.In(loc)
		return time.Date(local.Year(), local.Month(), local.Day(),
			ts.Hour(), ts.Minute(), 0, 0, loc), nil
	}
	return time.Time{}, apperrors.NewValidationError(
		FieldTimestamp, "unrecognized timestamp, use e.g. 2024-03-01 14:30 or 14:30")
}

// ParseGlucose parses a blood glucose value in mg/dL, nil if skipped.
func ParseGlucose(raw string) (*float64, error) {
	return parseMeasurement(raw, FieldGlucose, MaxGlucoseMgdl)
}

// ParseCarbs parses a carbohydrate amount in grams, nil if skipped.
func ParseCarbs(raw string) (*float64, error) {
	return parseMeasurement(raw, FieldCarbs, MaxCarbsG)
}

// ParseInsulin parses an insulin dose in units, nil if skipped.
func ParseInsulin(raw string) (*float64, error) {
	return parseMeasurement(raw, FieldInsulin, MaxInsulinUnits)
}

// ParseInsulinKind parses the bolus/basal tag, defaulting to bolus when
// the dose was entered without a kind.
func ParseInsulinKind(raw string) (domain.InsulinKind, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	switch trimmed {
	case "", "-":
		return domain.InsulinBolus, nil
	case string(domain.InsulinBolus):
		return domain.InsulinBolus, nil
	case string(domain.InsulinBasal):
		return domain.InsulinBasal, nil
	}
	return "", apperrors.NewValidationError(FieldInsulinKind, "insulin kind must be bolus or basal")
}

// ParseNote trims the free-text note and enforces the storage cap.
func ParseNote(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if skipped(trimmed) {
		return "", nil
	}
	if len([]rune(trimmed)) > MaxNoteRunes {
		return "", apperrors.NewValidationError(FieldNote, "note is too long, keep it under 2000 characters")
	}
	return trimmed, nil
}

func parseMeasurement(raw, field string, ceiling float64) (*float64, error) {
	trimmed := strings.TrimSpace(raw)
	if skipped(trimmed) {
		return nil, nil
	}

	normalized := strings.ToLower(trimmed)
	for _, suffix := range unitSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			normalized = strings.TrimSpace(strings.TrimSuffix(normalized, suffix))
			break
		}
	}
	normalized = strings.ReplaceAll(normalized, ",", ".")

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return nil, apperrors.NewValidationError(field, "not a number, enter e.g. 5.6 or skip with -")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, apperrors.NewValidationError(field, "value is not a finite number")
	}
	if value < 0 {
		return nil, apperrors.NewValidationError(field, "value cannot be negative")
	}
	if value > ceiling {
		return nil, apperrors.NewValidationError(field,
			"value is implausibly large, please re-check the reading")
	}
	return &value, nil
}

func skipped(trimmed string) bool {
	return trimmed == "" || trimmed == "-"
}
