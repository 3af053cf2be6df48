package keyboards

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MainMenu is the persistent action keyboard.
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 New entry", "new_entry"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Today", "report_1"),
			tgbotapi.NewInlineKeyboardButtonData("📊 7 days", "report_7"),
			tgbotapi.NewInlineKeyboardButtonData("📊 30 days", "report_30"),
		),
	)
}

// InsulinKind asks whether a dose was mealtime bolus or background basal.
func InsulinKind() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💉 Bolus", "kind_bolus"),
			tgbotapi.NewInlineKeyboardButtonData("🕐 Basal", "kind_basal"),
		),
	)
}

// Confirm asks to save or discard the collected entry.
func Confirm() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Save", "confirm_save"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Discard", "confirm_cancel"),
		),
	)
}
