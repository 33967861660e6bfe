package scheduler

import (
	"strings"

	"linkdigest/internal/logger"
)

const (
	defaultHour   = 9
	defaultMinute = 0
)

// ParseTimeOfDay parses a 24-hour "HH:MM" string. Leading zeros are
// optional ("9:5" means 09:05). An invalid value degrades to 09:00
// with a warning instead of failing.
func ParseTimeOfDay(s string, log logger.Logger) (hour, minute int) {
	hour, minute, ok := splitTimeOfDay(s)
	if !ok {
		log.Warn("invalid time format, using default 09:00",
			logger.String("time_to_send", s))
		return defaultHour, defaultMinute
	}
	return hour, minute
}

func splitTimeOfDay(s string) (int, int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, false
	}

	hour, ok := parseComponent(parts[0], 23)
	if !ok {
		return 0, 0, false
	}
	minute, ok := parseComponent(parts[1], 59)
	if !ok {
		return 0, 0, false
	}
	return hour, minute, true
}

// parseComponent parses a 1-2 digit decimal component in [0, max].
func parseComponent(s string, max int) (int, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	value := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		value = value*10 + int(r-'0')
	}
	if value > max {
		return 0, false
	}
	return value, true
}
