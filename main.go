package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/bot"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/bot/state"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/chart"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/config"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/database"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/logger"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/report"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/repository"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	logger.Info("Starting diabetes diary bot")

	db, err := database.Open(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to open database", "error", err)
	}
	logger.Info("Database ready", "driver", cfg.DB.Driver)

	entryRepo := repository.NewEntryRepository(db)
	entryService := services.NewEntryService(entryRepo)
	statsService := services.NewStatsService(cfg.Diary.Timezone)
	chartRenderer := chart.NewRenderer(cfg.Diary.Timezone)
	composer := report.NewComposer(cfg.Diary.Timezone)
	diaryService := services.NewDiaryService(
		entryService, statsService, chartRenderer, composer,
		cfg.Diary.Timezone, cfg.Diary.TargetLowMgdl, cfg.Diary.TargetHighMgdl,
	)

	var stateManager state.StateManager = state.NewManager()
	if cfg.Redis.Enabled {
		redisManager, err := state.NewRedisManager(cfg.Redis.Host, cfg.Redis.Port)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		stateManager = redisManager
		logger.Info("Using redis state manager", "host", cfg.Redis.Host)
	}

	telegramBot, err := bot.NewBot(cfg.TelegramToken, diaryService, stateManager, cfg.Diary)
	if err != nil {
		logger.Fatal("Failed to create bot", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Bot is running, press Ctrl+C to stop")
	if err := telegramBot.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("Bot stopped with error", "error", err)
	}
	logger.Info("Shutting down")
}
