package main

import (
	"fmt"
	"os"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/config"
	"github.com/camilaavilarinho/diabetes-diary-bot/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("🔍 Validating configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  no .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ configuration invalid:\n%v\n", err)
		os.Exit(1)
	}

	if cfg.TelegramToken == "" {
		fmt.Println("❌ TELEGRAM_BOT_TOKEN is not set")
		os.Exit(1)
	}

	fmt.Println("✅ Configuration valid!")
	fmt.Printf("  - Telegram token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - DB driver: %s\n", cfg.DB.Driver)
	if cfg.DB.Driver == config.DriverPostgres {
		fmt.Printf("  - DB host: %s:%s/%s\n", cfg.DB.Host, cfg.DB.Port, cfg.DB.DBName)
	} else {
		fmt.Printf("  - SQLite path: %s\n", cfg.DB.SQLitePath)
	}
	fmt.Printf("  - Timezone: %s\n", cfg.Diary.Timezone)
	fmt.Printf("  - Target range: %.0f-%.0f mg/dL\n", cfg.Diary.TargetLowMgdl, cfg.Diary.TargetHighMgdl)
	if cfg.Diary.DailyReportTime != "" {
		fmt.Printf("  - Daily report: %s to chat %d\n", cfg.Diary.DailyReportTime, cfg.Diary.DailyReportChat)
	}
	fmt.Printf("  - Log: %s %s -> %s\n", cfg.Logger.Format, levelName(cfg.Logger.Level), cfg.Logger.OutputPath)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func levelName(level logger.LogLevel) string {
	switch level {
	case logger.LevelDebug:
		return "debug"
	case logger.LevelWarn:
		return "warn"
	case logger.LevelError:
		return "error"
	default:
		return "info"
	}
}
