package handlers

import (
	"context"
	"strings"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/bot/state"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/domain"
	apperrors "github.com/camilaavilarinho/diabetes-diary-bot/internal/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Router dispatches one Telegram update to the matching handler.
type Router struct {
	commands  *CommandHandler
	text      *TextHandler
	callbacks *CallbackHandler
}

// NewRouter wires the handlers for one bot instance.
func NewRouter(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *Router {
	text := NewTextHandler(api, deps, stateManager)
	return &Router{
		commands:  NewCommandHandler(api, deps, stateManager),
		text:      text,
		callbacks: NewCallbackHandler(api, deps, stateManager, text),
	}
}

// Route handles one update. Unknown update kinds are ignored.
func (r *Router) Route(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return r.callbacks.Handle(ctx, update.CallbackQuery)
	}
	if update.Message == nil || update.Message.Text == "" {
		return nil
	}
	if update.Message.IsCommand() {
		return r.commands.Handle(ctx, update.Message)
	}
	return r.text.Handle(ctx, update.Message)
}

// CollectRawEntry assembles the raw submission from the dialog state.
// The timestamp stays empty: entries are stamped "now" by the engine.
func CollectRawEntry(stateManager state.StateManager, userID, chatID int64, author string) domain.RawEntry {
	glucose, _ := stateManager.GetTempData(userID, state.KeyGlucose)
	carbs, _ := stateManager.GetTempData(userID, state.KeyCarbs)
	insulin, _ := stateManager.GetTempData(userID, state.KeyInsulin)
	kind, _ := stateManager.GetTempData(userID, state.KeyInsulinKind)
	note, _ := stateManager.GetTempData(userID, state.KeyNote)

	return domain.RawEntry{
		ChatID:      chatID,
		Author:      author,
		Glucose:     glucose,
		Carbs:       carbs,
		Insulin:     insulin,
		InsulinKind: kind,
		Note:        note,
	}
}

// userMessage turns an engine error into text safe to show the user.
// Validation messages go out verbatim; everything else is generic.
func userMessage(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			if field := appErr.Field(); field != "" {
				return field + ": " + appErr.Message
			}
			return appErr.Message
		case apperrors.ErrorTypeStorage:
			return "the diary storage is unavailable right now, please try again in a moment"
		}
	}
	return "something went wrong, please try again"
}

func authorName(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	if user.UserName != "" {
		return user.UserName
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}
