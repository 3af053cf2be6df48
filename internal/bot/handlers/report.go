package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/domain"
	apperrors "github.com/camilaavilarinho/diabetes-diary-bot/internal/errors"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/interfaces"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseDays interprets the /report argument; default is the last week.
func ParseDays(arg string) int {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "":
		return 7
	case "week", "lastweek":
		return 7
	case "today":
		return 1
	}
	if n, err := strconv.Atoi(arg); err == nil && n > 0 {
		return n
	}
	return 7
}

// SendReport generates the PDF for the chat's last n days and delivers
// it as a document. Storage failures are reported as retryable; render
// faults as a generic failure. Stored data is never affected.
func SendReport(ctx context.Context, api *tgbotapi.BotAPI, diary interfaces.DiaryServiceInterface, chatID int64, days int) error {
	start, end := diary.LastDays(days)
	document, err := diary.RequestReport(ctx, domain.ReportRequest{
		ChatID:       chatID,
		Start:        start,
		End:          end,
		IncludeTrend: true,
		IncludeDaily: true,
	})
	if err != nil {
		logger.Error("Report generation failed", "error", err, "chat_id", chatID)
		text := "❌ Report generation failed. Please try again."
		if apperrors.IsStorage(err) {
			text = "❌ The diary storage is unavailable right now. Please try again in a moment."
		}
		msg := tgbotapi.NewMessage(chatID, text)
		_, sendErr := api.Send(msg)
		if sendErr != nil {
			return sendErr
		}
		return err
	}

	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatUploadDocument)
	if _, err := api.Request(action); err != nil {
		logger.Warn("Failed to send chat action", "error", err)
	}

	filename := fmt.Sprintf("diary_%s_to_%s.pdf",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: document,
	})
	doc.Caption = fmt.Sprintf("📊 Diary report, last %s", pluralDays(days))
	_, err = api.Send(doc)
	return err
}

func pluralDays(n int) string {
	if n == 1 {
		return "day"
	}
	return fmt.Sprintf("%d days", n)
}
