package interfaces

import (
	"context"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/domain"
)

// DiaryServiceInterface defines the engine contract the front end uses.
// The front end owns no diary data: it turns conversation turns into raw
// fields and delivers the returned document bytes back to the user.
type DiaryServiceInterface interface {
	SubmitEntry(ctx context.Context, raw domain.RawEntry) (uint, error)
	DeleteEntry(ctx context.Context, chatID int64, entryID uint) error
	RequestReport(ctx context.Context, req domain.ReportRequest) ([]byte, error)
	AuditLog(ctx context.Context, chatID int64, start, end time.Time) ([]domain.DiaryEntry, error)
	LastDays(n int) (time.Time, time.Time)
}
