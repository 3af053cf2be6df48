package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "DB_DRIVER", "SQLITE_PATH",
		"TIMEZONE", "TARGET_LOW_MGDL", "TARGET_HIGH_MGDL",
		"DAILY_REPORT_TIME", "DAILY_REPORT_CHAT_ID", "REDIS_HOST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DB.Driver != DriverSQLite {
		t.Errorf("driver = %q, want sqlite default", cfg.DB.Driver)
	}
	if cfg.Diary.TargetLowMgdl != 70 || cfg.Diary.TargetHighMgdl != 140 {
		t.Errorf("targets = %v-%v, want 70-140", cfg.Diary.TargetLowMgdl, cfg.Diary.TargetHighMgdl)
	}
	if cfg.Redis.Enabled {
		t.Error("redis should be disabled without REDIS_HOST")
	}
	if cfg.Diary.DailyReportTime != "" {
		t.Errorf("daily report should default off, got %q", cfg.Diary.DailyReportTime)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("TARGET_LOW_MGDL", "80")
	t.Setenv("TARGET_HIGH_MGDL", "160")
	t.Setenv("DAILY_REPORT_TIME", "21:00")
	t.Setenv("DAILY_REPORT_CHAT_ID", "12345")
	t.Setenv("REDIS_HOST", "localhost")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Diary.TargetLowMgdl != 80 || cfg.Diary.TargetHighMgdl != 160 {
		t.Errorf("targets = %v-%v", cfg.Diary.TargetLowMgdl, cfg.Diary.TargetHighMgdl)
	}
	if cfg.Diary.DailyReportTime != "21:00" || cfg.Diary.DailyReportChat != 12345 {
		t.Errorf("daily report = %q/%d", cfg.Diary.DailyReportTime, cfg.Diary.DailyReportChat)
	}
	if !cfg.Redis.Enabled {
		t.Error("redis should be enabled when REDIS_HOST is set")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown timezone", "TIMEZONE", "Mars/Olympus"},
		{"bad target", "TARGET_LOW_MGDL", "low"},
		{"bad report time", "DAILY_REPORT_TIME", "9pm"},
		{"bad report chat", "DAILY_REPORT_CHAT_ID", "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoadRejectsEmptyTargetRange(t *testing.T) {
	clearEnv(t)
	t.Setenv("TARGET_LOW_MGDL", "140")
	t.Setenv("TARGET_HIGH_MGDL", "140")
	if _, err := Load(); err == nil {
		t.Error("expected error for an empty target range")
	}
}
