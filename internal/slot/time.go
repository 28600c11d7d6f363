package slot

import (
	"fmt"
	"time"
)

// MinutesPerDay is the length of a calendar day in minutes.
const MinutesPerDay = 24 * 60

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// Returns 0 for malformed input.
func TimeToMinutes(t string) int {
	if len(t) != 5 || t[2] != ':' {
		return 0
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	return hours*60 + mins
}

// MinutesToTime converts minutes since midnight to "HH:MM", clamped to the day.
func MinutesToTime(m int) string {
	m = max(0, min(m, MinutesPerDay-1))
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ValidTime reports whether s is a well-formed "HH:MM" time of day.
func ValidTime(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// EndTime returns the "HH:MM" at which a slot starting at start ends.
// Slots ending exactly at midnight report "24:00"; later ends are the time
// on the next day, suffixed "+1".
func EndTime(start string, durationMinutes int) string {
	end := TimeToMinutes(start) + durationMinutes
	switch {
	case end == MinutesPerDay:
		return "24:00"
	case end > MinutesPerDay:
		return MinutesToTime(end-MinutesPerDay) + "+1"
	}
	return MinutesToTime(end)
}
