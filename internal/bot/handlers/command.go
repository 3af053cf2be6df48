package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/bot/menus"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/bot/state"
	apperrors "github.com/camilaavilarinho/diabetes-diary-bot/internal/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *CommandHandler {
	return &CommandHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes one command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	switch message.Command() {
	case "start":
		return h.handleStart(chatID)
	case "entry":
		return StartEntryDialog(h.api, h.stateManager, message.From.ID, chatID)
	case "report":
		days := ParseDays(message.CommandArguments())
		return SendReport(ctx, h.api, h.deps.Diary, chatID, days)
	case "delete":
		return h.handleDelete(ctx, message)
	case "cancel":
		return CancelEntryDialog(h.api, h.stateManager, message.From.ID, chatID)
	default:
		msg := tgbotapi.NewMessage(chatID, "Unknown command. Try /entry, /report or /cancel.")
		_, err := h.api.Send(msg)
		return err
	}
}

func (h *CommandHandler) handleStart(chatID int64) error {
	text := "👋 Hi! I'm your shared diabetes diary.\n\n" +
		"📝 /entry - add a diary entry (glucose, carbs, insulin, notes)\n" +
		"📊 /report 7 - PDF report for the last 7 days\n" +
		"🗑 /delete 12 - remove entry #12 from reports\n" +
		"❌ /cancel - stop an entry in progress\n\n" +
		"💡 Everyone in this group shares one diary."
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		return err
	}
	return menus.SendMainMenu(h.api, chatID)
}

func (h *CommandHandler) handleDelete(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	arg := strings.TrimSpace(message.CommandArguments())
	entryID, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || entryID == 0 {
		msg := tgbotapi.NewMessage(chatID, "Usage: /delete <entry id> - the id is in the report's entry log.")
		_, err := h.api.Send(msg)
		return err
	}

	if err := h.deps.Diary.DeleteEntry(ctx, chatID, uint(entryID)); err != nil {
		text := "❌ Could not delete the entry. Please try again."
		if apperrors.IsNotFound(err) {
			text = fmt.Sprintf("Entry #%d was not found in this diary.", entryID)
		}
		msg := tgbotapi.NewMessage(chatID, text)
		_, sendErr := h.api.Send(msg)
		if sendErr != nil {
			return sendErr
		}
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🗑 Entry #%d removed from future reports (kept in the audit history).", entryID))
	_, err = h.api.Send(msg)
	return err
}
