package services

import (
	"context"
	"sync"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/database"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/domain"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/repository"
)

// EntryService is the durable append/query interface over canonical
// diary records. Appends go through a single-writer critical section so
// assigned ids are strictly monotonic under concurrent submitters;
// readers are never blocked by it.
type EntryService struct {
	repo     *repository.EntryRepository
	appendMu sync.Mutex
}

func NewEntryService(repo *repository.EntryRepository) *EntryService {
	return &EntryService{repo: repo}
}

// Append durably stores one validated entry and returns its assigned id.
// The write is all-or-nothing: a failed append leaves no partial row.
func (s *EntryService) Append(ctx context.Context, entry domain.DiaryEntry) (uint, error) {
	record := toRecord(entry)

	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	if err := s.repo.Create(ctx, &record); err != nil {
		return 0, err
	}
	return record.ID, nil
}

// SoftDelete tombstones the entry. The record stays available to audit
// queries; it never reappears in normal range queries.
func (s *EntryService) SoftDelete(ctx context.Context, chatID int64, entryID uint) error {
	return s.repo.SoftDelete(ctx, chatID, entryID)
}

// QueryRange returns the chat's live entries with timestamp in
// [start, end), ascending by timestamp, ties broken by id.
func (s *EntryService) QueryRange(ctx context.Context, chatID int64, start, end time.Time) ([]domain.DiaryEntry, error) {
	records, err := s.repo.QueryRange(ctx, chatID, start, end)
	if err != nil {
		return nil, err
	}
	return toDomainEntries(records), nil
}

// QueryRangeAudit returns the same window including tombstoned entries.
func (s *EntryService) QueryRangeAudit(ctx context.Context, chatID int64, start, end time.Time) ([]domain.DiaryEntry, error) {
	records, err := s.repo.QueryRangeAudit(ctx, chatID, start, end)
	if err != nil {
		return nil, err
	}
	return toDomainEntries(records), nil
}

func toRecord(entry domain.DiaryEntry) database.DiaryEntry {
	return database.DiaryEntry{
		ChatID:       entry.ChatID,
		Author:       entry.Author,
		Timestamp:    entry.Timestamp.UTC(),
		GlucoseMgdl:  entry.GlucoseMgdl,
		CarbsG:       entry.CarbsG,
		InsulinUnits: entry.InsulinUnits,
		InsulinKind:  string(entry.InsulinKind),
		Note:         entry.Note,
	}
}

func toDomainEntries(records []database.DiaryEntry) []domain.DiaryEntry {
	entries := make([]domain.DiaryEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, domain.DiaryEntry{
			ID:           record.ID,
			ChatID:       record.ChatID,
			Author:       record.Author,
			Timestamp:    record.Timestamp.UTC(),
			GlucoseMgdl:  record.GlucoseMgdl,
			CarbsG:       record.CarbsG,
			InsulinUnits: record.InsulinUnits,
			InsulinKind:  domain.InsulinKind(record.InsulinKind),
			Note:         record.Note,
			Deleted:      record.DeletedAt.Valid,
		})
	}
	return entries
}
