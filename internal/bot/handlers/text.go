package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/bot/keyboards"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/bot/state"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/validator"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TextHandler advances the entry dialog one field at a time. Each field
// is parsed immediately so a typo gets re-prompted on the spot instead
// of failing the whole entry at the end.
type TextHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	switch h.stateManager.GetUserState(userID) {
	case state.WaitingForGlucose:
		return h.handleGlucose(message)
	case state.WaitingForCarbs:
		return h.handleCarbs(message)
	case state.WaitingForInsulin:
		return h.handleInsulin(message)
	case state.WaitingForInsulinKind:
		return h.handleInsulinKindText(message)
	case state.WaitingForNote:
		return h.handleNote(message)
	case state.WaitingForConfirm:
		return h.handleConfirmText(ctx, message)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Use /entry to add a diary entry or /report for a PDF report.")
		_, err := h.api.Send(msg)
		return err
	}
}

// StartEntryDialog begins collecting a new entry.
func StartEntryDialog(api *tgbotapi.BotAPI, stateManager state.StateManager, userID, chatID int64) error {
	stateManager.ClearTempData(userID)
	stateManager.SetUserState(userID, state.WaitingForGlucose)
	msg := tgbotapi.NewMessage(chatID,
		"📝 New entry!\n\nEnter blood glucose in mg/dL (e.g. 120), or '-' if not measured.\n\n💡 Type /cancel anytime to stop.")
	_, err := api.Send(msg)
	return err
}

// CancelEntryDialog aborts an entry in progress.
func CancelEntryDialog(api *tgbotapi.BotAPI, stateManager state.StateManager, userID, chatID int64) error {
	stateManager.ClearUserState(userID)
	stateManager.ClearTempData(userID)
	msg := tgbotapi.NewMessage(chatID, "❌ Entry cancelled.\n\nUse /entry to start a new one.")
	_, err := api.Send(msg)
	return err
}

func (h *TextHandler) handleGlucose(message *tgbotapi.Message) error {
	raw := strings.TrimSpace(message.Text)
	if _, err := validator.ParseGlucose(raw); err != nil {
		return h.reprompt(message.Chat.ID, err)
	}
	h.stateManager.SetTempData(message.From.ID, state.KeyGlucose, raw)
	h.stateManager.SetUserState(message.From.ID, state.WaitingForCarbs)
	msg := tgbotapi.NewMessage(message.Chat.ID, "Enter carbs in grams (e.g. 45), or '-' to skip:")
	_, err := h.api.Send(msg)
	return err
}

func (h *TextHandler) handleCarbs(message *tgbotapi.Message) error {
	raw := strings.TrimSpace(message.Text)
	if _, err := validator.ParseCarbs(raw); err != nil {
		return h.reprompt(message.Chat.ID, err)
	}
	h.stateManager.SetTempData(message.From.ID, state.KeyCarbs, raw)
	h.stateManager.SetUserState(message.From.ID, state.WaitingForInsulin)
	msg := tgbotapi.NewMessage(message.Chat.ID, "Enter insulin units given (e.g. 4.5), or '-' to skip:")
	_, err := h.api.Send(msg)
	return err
}

func (h *TextHandler) handleInsulin(message *tgbotapi.Message) error {
	raw := strings.TrimSpace(message.Text)
	dose, err := validator.ParseInsulin(raw)
	if err != nil {
		return h.reprompt(message.Chat.ID, err)
	}
	h.stateManager.SetTempData(message.From.ID, state.KeyInsulin, raw)

	if dose == nil {
		// No dose, no kind to ask about.
		return h.askForNote(message.From.ID, message.Chat.ID)
	}

	h.stateManager.SetUserState(message.From.ID, state.WaitingForInsulinKind)
	msg := tgbotapi.NewMessage(message.Chat.ID, "Was that a bolus or basal dose?")
	msg.ReplyMarkup = keyboards.InsulinKind()
	_, err = h.api.Send(msg)
	return err
}

func (h *TextHandler) handleInsulinKindText(message *tgbotapi.Message) error {
	raw := strings.TrimSpace(message.Text)
	if _, err := validator.ParseInsulinKind(raw); err != nil {
		return h.reprompt(message.Chat.ID, err)
	}
	h.stateManager.SetTempData(message.From.ID, state.KeyInsulinKind, raw)
	return h.askForNote(message.From.ID, message.Chat.ID)
}

// SetInsulinKind records the kind chosen via inline button.
func (h *TextHandler) SetInsulinKind(userID, chatID int64, kind string) error {
	h.stateManager.SetTempData(userID, state.KeyInsulinKind, kind)
	return h.askForNote(userID, chatID)
}

func (h *TextHandler) askForNote(userID, chatID int64) error {
	h.stateManager.SetUserState(userID, state.WaitingForNote)
	msg := tgbotapi.NewMessage(chatID, "Any notes? (or '-' for none)")
	_, err := h.api.Send(msg)
	return err
}

func (h *TextHandler) handleNote(message *tgbotapi.Message) error {
	raw := strings.TrimSpace(message.Text)
	if _, err := validator.ParseNote(raw); err != nil {
		return h.reprompt(message.Chat.ID, err)
	}
	userID := message.From.ID
	h.stateManager.SetTempData(userID, state.KeyNote, raw)
	h.stateManager.SetUserState(userID, state.WaitingForConfirm)

	glucose, _ := h.stateManager.GetTempData(userID, state.KeyGlucose)
	carbs, _ := h.stateManager.GetTempData(userID, state.KeyCarbs)
	insulin, _ := h.stateManager.GetTempData(userID, state.KeyInsulin)
	kind, _ := h.stateManager.GetTempData(userID, state.KeyInsulinKind)

	summary := fmt.Sprintf("✅ Confirm entry:\n\nGlucose: %s\nCarbs: %s\nInsulin: %s %s\nNotes: %s",
		orDash(glucose), orDash(carbs), orDash(insulin), kind, orDash(raw))
	msg := tgbotapi.NewMessage(message.Chat.ID, summary)
	msg.ReplyMarkup = keyboards.Confirm()
	_, err := h.api.Send(msg)
	return err
}

func (h *TextHandler) handleConfirmText(ctx context.Context, message *tgbotapi.Message) error {
	switch strings.ToLower(strings.TrimSpace(message.Text)) {
	case "yes", "y":
		return h.SaveEntry(ctx, message.From.ID, message.Chat.ID, authorName(message.From))
	case "no", "n":
		return CancelEntryDialog(h.api, h.stateManager, message.From.ID, message.Chat.ID)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Please answer yes or no, or use the buttons above.")
		_, err := h.api.Send(msg)
		return err
	}
}

// SaveEntry submits the collected fields to the diary engine.
func (h *TextHandler) SaveEntry(ctx context.Context, userID, chatID int64, author string) error {
	raw := CollectRawEntry(h.stateManager, userID, chatID, author)
	id, err := h.deps.Diary.SubmitEntry(ctx, raw)
	if err != nil {
		return h.reprompt(chatID, err)
	}

	h.stateManager.ClearUserState(userID)
	h.stateManager.ClearTempData(userID)

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Saved! Entry #%d.", id))
	if _, err := h.api.Send(msg); err != nil {
		return err
	}
	return nil
}

func (h *TextHandler) reprompt(chatID int64, err error) error {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ %s\n\nUse /cancel to stop.", userMessage(err)))
	_, sendErr := h.api.Send(msg)
	return sendErr
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
