package handlers

import "testing"

func TestParseDays(t *testing.T) {
	tests := []struct {
		arg  string
		want int
	}{
		{"", 7},
		{"week", 7},
		{"LastWeek", 7},
		{"today", 1},
		{"30", 30},
		{"1", 1},
		{"0", 7},
		{"-3", 7},
		{"soon", 7},
	}
	for _, tt := range tests {
		if got := ParseDays(tt.arg); got != tt.want {
			t.Errorf("ParseDays(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestPluralDays(t *testing.T) {
	if got := pluralDays(1); got != "day" {
		t.Errorf("pluralDays(1) = %q", got)
	}
	if got := pluralDays(7); got != "7 days" {
		t.Errorf("pluralDays(7) = %q", got)
	}
}
