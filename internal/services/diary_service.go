package services

import (
	"context"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/domain"
	apperrors "github.com/camilaavilarinho/diabetes-diary-bot/internal/errors"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/logger"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/validator"
)

// EntryStore is the persistence boundary the diary engine depends on.
type EntryStore interface {
	Append(ctx context.Context, entry domain.DiaryEntry) (uint, error)
	SoftDelete(ctx context.Context, chatID int64, entryID uint) error
	QueryRange(ctx context.Context, chatID int64, start, end time.Time) ([]domain.DiaryEntry, error)
	QueryRangeAudit(ctx context.Context, chatID int64, start, end time.Time) ([]domain.DiaryEntry, error)
}

// ChartRenderer rasterizes metric series into chart images.
type ChartRenderer interface {
	GlucoseTrend(series []domain.SeriesPoint, targetLow, targetHigh float64, caption string) (domain.RenderedChart, error)
	DailyBars(totals []domain.DayTotal, caption string) (domain.RenderedChart, error)
}

// DocumentComposer assembles a report request into document bytes.
type DocumentComposer interface {
	Compose(req domain.ReportRequest, summary domain.StatSummary, charts []domain.RenderedChart, entries []domain.DiaryEntry) ([]byte, error)
}

// DiaryService is the engine facade the conversational front end talks
// to: one call to submit a validated entry, one to produce a report.
// Every report recomputes statistics and charts fresh from the store,
// trading recomputation for guaranteed freshness at personal-scale data
// volumes.
type DiaryService struct {
	entries  EntryStore
	stats    *StatsService
	charts   ChartRenderer
	composer DocumentComposer

	location   *time.Location
	targetLow  float64
	targetHigh float64
	now        func() time.Time
}

func NewDiaryService(entries EntryStore, stats *StatsService, charts ChartRenderer, composer DocumentComposer, location *time.Location, targetLow, targetHigh float64) *DiaryService {
	if location == nil {
		location = time.UTC
	}
	return &DiaryService{
		entries:    entries,
		stats:      stats,
		charts:     charts,
		composer:   composer,
		location:   location,
		targetLow:  targetLow,
		targetHigh: targetHigh,
		now:        time.Now,
	}
}

// SubmitEntry validates one raw submission and stores the canonical
// record, returning its assigned id. Validation failures carry the
// offending field so the front end can re-prompt precisely; nothing is
// written on any error path.
func (s *DiaryService) SubmitEntry(ctx context.Context, raw domain.RawEntry) (uint, error) {
	entry, err := validator.Validate(raw, s.now(), s.location)
	if err != nil {
		return 0, err
	}

	id, err := s.entries.Append(ctx, entry)
	if err != nil {
		return 0, err
	}
	logger.Info("Entry stored", "entry_id", id, "chat_id", entry.ChatID)
	return id, nil
}

// DeleteEntry tombstones a stored entry. The record remains in the
// audit history; it just leaves all future reports.
func (s *DiaryService) DeleteEntry(ctx context.Context, chatID int64, entryID uint) error {
	return s.entries.SoftDelete(ctx, chatID, entryID)
}

// RequestReport builds the report document for one half-open window.
// An empty window is not an error: the document renders with explicit
// "insufficient data" sections. Cancellation via ctx discards the
// partial render; nothing is persisted either way.
func (s *DiaryService) RequestReport(ctx context.Context, req domain.ReportRequest) ([]byte, error) {
	req = s.normalize(req)
	if req.End.Before(req.Start) {
		return nil, apperrors.NewValidationError("period", "report period end precedes its start")
	}

	entries, err := s.entries.QueryRange(ctx, req.ChatID, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := s.stats.Summarize(entries, req.TargetLow, req.TargetHigh)

	var charts []domain.RenderedChart
	if req.IncludeTrend {
		trend, err := s.charts.GlucoseTrend(summary.GlucoseSeries, req.TargetLow, req.TargetHigh, "Glucose trend (mg/dL)")
		if err != nil {
			return nil, err
		}
		charts = append(charts, trend)
	}
	if req.IncludeDaily {
		carbs, err := s.charts.DailyBars(summary.CarbsPerDay, "Carbs per day (g)")
		if err != nil {
			return nil, err
		}
		insulin, err := s.charts.DailyBars(summary.InsulinUnitsPerDay, "Insulin per day (units)")
		if err != nil {
			return nil, err
		}
		charts = append(charts, carbs, insulin)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	document, err := s.composer.Compose(req, summary, charts, entries)
	if err != nil {
		return nil, err
	}
	logger.Info("Report composed",
		"chat_id", req.ChatID, "entries", summary.EntryCount, "bytes", len(document))
	return document, nil
}

// AuditLog returns the window including tombstoned entries.
func (s *DiaryService) AuditLog(ctx context.Context, chatID int64, start, end time.Time) ([]domain.DiaryEntry, error) {
	return s.entries.QueryRangeAudit(ctx, chatID, start, end)
}

// LastDays builds the inclusive-start, exclusive-end window covering the
// last n calendar days in the report timezone, ending now.
func (s *DiaryService) LastDays(n int) (time.Time, time.Time) {
	if n < 1 {
		n = 1
	}
	local := s.now().In(s.location)
	end := local.Add(time.Minute) // include entries stamped this minute
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location).
		AddDate(0, 0, -(n - 1))
	return start, end
}

func (s *DiaryService) normalize(req domain.ReportRequest) domain.ReportRequest {
	if req.TargetLow == 0 && req.TargetHigh == 0 {
		req.TargetLow = s.targetLow
		req.TargetHigh = s.targetHigh
	}
	return req
}
