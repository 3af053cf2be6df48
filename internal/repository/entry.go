// Package repository holds the gorm data access layer for diary entries.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/database"
	apperrors "github.com/camilaavilarinho/diabetes-diary-bot/internal/errors"
	"gorm.io/gorm"
)

// EntryRepository handles diary entry persistence.
type EntryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository.
func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create inserts one entry atomically and fills in its assigned ID.
func (r *EntryRepository) Create(ctx context.Context, record *database.DiaryEntry) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return apperrors.NewStorageError(err)
	}
	return nil
}

// SoftDelete tombstones one entry of the given chat. The row stays in
// the table for audit; it just stops appearing in normal queries.
func (r *EntryRepository) SoftDelete(ctx context.Context, chatID int64, entryID uint) error {
	result := r.db.WithContext(ctx).
		Where("chat_id = ? AND id = ?", chatID, entryID).
		Delete(&database.DiaryEntry{})
	if result.Error != nil {
		return apperrors.NewStorageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("entry not found").
			WithContext("entry_id", entryID)
	}
	return nil
}

// QueryRange returns the chat's live entries with timestamp in
// [start, end), ascending by timestamp with insertion order breaking
// ties. An empty window yields an empty slice, not an error.
func (r *EntryRepository) QueryRange(ctx context.Context, chatID int64, start, end time.Time) ([]database.DiaryEntry, error) {
	return r.query(r.db.WithContext(ctx), chatID, start, end)
}

// QueryRangeAudit is QueryRange including tombstoned entries, for the
// audit view of the diary.
func (r *EntryRepository) QueryRangeAudit(ctx context.Context, chatID int64, start, end time.Time) ([]database.DiaryEntry, error) {
	return r.query(r.db.WithContext(ctx).Unscoped(), chatID, start, end)
}

func (r *EntryRepository) query(tx *gorm.DB, chatID int64, start, end time.Time) ([]database.DiaryEntry, error) {
	var records []database.DiaryEntry
	err := tx.
		Where("chat_id = ? AND timestamp >= ? AND timestamp < ?", chatID, start, end).
		Order("timestamp ASC, id ASC").
		Find(&records).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewStorageError(err)
	}
	return records, nil
}
