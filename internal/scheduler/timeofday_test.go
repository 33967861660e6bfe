package scheduler

import (
	"testing"

	"linkdigest/internal/logger"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input      string
		wantHour   int
		wantMinute int
	}{
		{"09:00", 9, 0},
		{"23:59", 23, 59},
		{"00:00", 0, 0},
		{"9:5", 9, 5},   // single-digit components are accepted
		{"25:61", 9, 0}, // out of range falls back to the default
		{"24:00", 9, 0},
		{"12:60", 9, 0},
		{"12", 9, 0},
		{"12:30:45", 9, 0},
		{"ab:cd", 9, 0},
		{"", 9, 0},
		{"-1:30", 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			hour, minute := ParseTimeOfDay(tt.input, logger.Nop())
			if hour != tt.wantHour || minute != tt.wantMinute {
				t.Errorf("ParseTimeOfDay(%q) = %d:%d, want %d:%d",
					tt.input, hour, minute, tt.wantHour, tt.wantMinute)
			}
		})
	}
}
