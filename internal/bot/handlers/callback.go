package handlers

import (
	"context"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/bot/state"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CallbackHandler handles inline keyboard button presses
type CallbackHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
	text         *TextHandler
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager, text *TextHandler) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		text:         text,
	}
}

// Handle processes one callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	// Answer first to clear the button's loading state.
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := h.api.Request(callback); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}

	if query.Message == nil {
		return nil
	}
	userID := query.From.ID
	chatID := query.Message.Chat.ID

	switch query.Data {
	case "new_entry":
		return StartEntryDialog(h.api, h.stateManager, userID, chatID)
	case "report_1":
		return SendReport(ctx, h.api, h.deps.Diary, chatID, 1)
	case "report_7":
		return SendReport(ctx, h.api, h.deps.Diary, chatID, 7)
	case "report_30":
		return SendReport(ctx, h.api, h.deps.Diary, chatID, 30)
	case "kind_bolus":
		return h.handleKind(userID, chatID, "bolus")
	case "kind_basal":
		return h.handleKind(userID, chatID, "basal")
	case "confirm_save":
		if h.stateManager.GetUserState(userID) != state.WaitingForConfirm {
			return nil
		}
		return h.text.SaveEntry(ctx, userID, chatID, authorName(query.From))
	case "confirm_cancel":
		return CancelEntryDialog(h.api, h.stateManager, userID, chatID)
	default:
		logger.Warn("Unknown callback data", "data", query.Data)
		return nil
	}
}

func (h *CallbackHandler) handleKind(userID, chatID int64, kind string) error {
	if h.stateManager.GetUserState(userID) != state.WaitingForInsulinKind {
		return nil
	}
	return h.text.SetInsulinKind(userID, chatID, kind)
}
