package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/bot/handlers"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/bot/state"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/config"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/interfaces"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the conversational front end. It turns Telegram updates into
// engine calls and delivers report documents back to the chat; all
// diary data lives behind the engine facade.
type Bot struct {
	api      *tgbotapi.BotAPI
	router   *handlers.Router
	diary    interfaces.DiaryServiceInterface
	diaryCfg config.DiaryConfig
}

// NewBot creates the bot and wires its handlers.
func NewBot(token string, diary interfaces.DiaryServiceInterface, stateManager state.StateManager, diaryCfg config.DiaryConfig) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Info("Bot authorized", "account", api.Self.UserName)

	deps := handlers.Dependencies{Diary: diary}
	return &Bot{
		api:      api,
		router:   handlers.NewRouter(api, deps, stateManager),
		diary:    diary,
		diaryCfg: diaryCfg,
	}, nil
}

// Start runs the long-polling loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b.diaryCfg.DailyReportTime != "" && b.diaryCfg.DailyReportChat != 0 {
		go b.runDailyReport(ctx)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updatesChan := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updatesChan:
			if !ok {
				return nil
			}
			if err := b.router.Route(ctx, update); err != nil {
				logger.Error("Failed to handle update", "error", err)
			}
		}
	}
}

// runDailyReport sends the current day's report to the configured chat
// at the configured wall-clock time, every day.
func (b *Bot) runDailyReport(ctx context.Context) {
	for {
		wait := untilNext(b.diaryCfg.DailyReportTime, time.Now(), b.diaryCfg.Timezone)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		err := handlers.SendReport(ctx, b.api, b.diary, b.diaryCfg.DailyReportChat, 1)
		if err != nil {
			logger.Error("Daily report failed", "error", err, "chat_id", b.diaryCfg.DailyReportChat)
		} else {
			logger.Info("Daily report sent", "chat_id", b.diaryCfg.DailyReportChat)
		}
	}
}

// untilNext returns the duration until the next occurrence of the
// "HH:MM" wall-clock time in loc, strictly in the future.
func untilNext(at string, now time.Time, loc *time.Location) time.Duration {
	parsed, err := time.Parse("15:04", at)
	if err != nil {
		// Config validated this already; fall back to a day.
		return 24 * time.Hour
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(local)
}
