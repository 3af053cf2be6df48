package bot

import (
	"testing"
	"time"
)

func TestUntilNext(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 3, 5, 10, 30, 0, 0, loc)

	tests := []struct {
		name string
		at   string
		want time.Duration
	}{
		{"later today", "21:00", 10*time.Hour + 30*time.Minute},
		{"already passed, tomorrow", "08:00", 21*time.Hour + 30*time.Minute},
		{"exactly now, strictly future", "10:30", 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := untilNext(tt.at, now, loc); got != tt.want {
				t.Errorf("untilNext(%q) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestUntilNextBadInput(t *testing.T) {
	got := untilNext("not-a-time", time.Now(), time.UTC)
	if got != 24*time.Hour {
		t.Errorf("untilNext fallback = %v, want 24h", got)
	}
}
