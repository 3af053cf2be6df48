package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	TelegramToken string
	DB            DBConfig
	Redis         RedisConfig
	Diary         DiaryConfig
	Logger        LoggerConfig
}

type DBConfig struct {
	Driver     string // "sqlite" or "postgres"
	SQLitePath string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
}

type RedisConfig struct {
	Enabled bool
	Host    string
	Port    string
}

// DiaryConfig carries the engine defaults: the user's timezone, the
// glycemic target band in mg/dL and the optional daily report schedule.
type DiaryConfig struct {
	Timezone        *time.Location
	TargetLowMgdl   float64
	TargetHighMgdl  float64
	DailyReportTime string // "HH:MM", empty disables the scheduled report
	DailyReportChat int64
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	loc := time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
		}
		loc = parsed
	}

	targetLow, err := parseFloatEnv("TARGET_LOW_MGDL", 70)
	if err != nil {
		return nil, err
	}
	targetHigh, err := parseFloatEnv("TARGET_HIGH_MGDL", 140)
	if err != nil {
		return nil, err
	}
	if targetLow >= targetHigh {
		return nil, fmt.Errorf("target range [%v, %v] is empty", targetLow, targetHigh)
	}

	reportTime := os.Getenv("DAILY_REPORT_TIME")
	if reportTime != "" {
		if _, err := time.Parse("15:04", reportTime); err != nil {
			return nil, fmt.Errorf("invalid DAILY_REPORT_TIME %q: %w", reportTime, err)
		}
	}
	var reportChat int64
	if raw := os.Getenv("DAILY_REPORT_CHAT_ID"); raw != "" {
		reportChat, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DAILY_REPORT_CHAT_ID %q: %w", raw, err)
		}
	}

	return &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DB: DBConfig{
			Driver:     getEnvOrDefault("DB_DRIVER", DriverSQLite),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "data/diary.db"),
			Host:       getEnvOrDefault("DB_HOST", "localhost"),
			Port:       getEnvOrDefault("DB_PORT", "5432"),
			User:       getEnvOrDefault("DB_USER", "postgres"),
			Password:   getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:     getEnvOrDefault("DB_NAME", "diabetes_diary"),
		},
		Redis: RedisConfig{
			Enabled: os.Getenv("REDIS_HOST") != "",
			Host:    os.Getenv("REDIS_HOST"),
			Port:    getEnvOrDefault("REDIS_PORT", "6379"),
		},
		Diary: DiaryConfig{
			Timezone:        loc,
			TargetLowMgdl:   targetLow,
			TargetHighMgdl:  targetHigh,
			DailyReportTime: reportTime,
			DailyReportChat: reportChat,
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}
