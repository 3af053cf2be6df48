package database

import (
	"time"

	"gorm.io/gorm"
)

// DiaryEntry is the persisted form of a validated diary record. The
// table is append-only: rows are never updated, removal sets the
// DeletedAt tombstone so the audit history stays intact.
type DiaryEntry struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ChatID       int64     `gorm:"index:idx_entries_chat_ts,priority:1;not null"`
	Author       string    `gorm:"size:128"`
	Timestamp    time.Time `gorm:"index:idx_entries_chat_ts,priority:2;not null"`
	GlucoseMgdl  *float64
	CarbsG       *float64
	InsulinUnits *float64
	InsulinKind  string `gorm:"size:16"`
	Note         string `gorm:"size:2048"`
}
