package booking

import (
	"regexp"
	"strconv"
)

// DefaultDurationMinutes is used whenever a service duration cannot be
// determined. Slot generation must never block on a catalog miss.
const DefaultDurationMinutes = 60

// GenerateSlots tiles [open, close) with back-to-back appointments of the
// given length, without buffers, starting exactly at open.
func GenerateSlots(open, close TimeOfDay, durationMinutes int) []TimeOfDay {
	if durationMinutes <= 0 {
		return nil
	}

	var slots []TimeOfDay
	for cur := open; cur.Add(durationMinutes) <= close; cur = cur.Add(durationMinutes) {
		slots = append(slots, cur)
	}
	return slots
}

var (
	hoursPattern   = regexp.MustCompile(`(?i)(\d+)\s*(?:hrs?|hours?)`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*min`)
)

// ParseDuration converts descriptions like "2 hrs 15 mins" or "45 mins"
// into minutes. The first number before an hour unit and the first number
// before a minute unit are used; either may be absent. ok is false when
// neither unit is present or the total is zero.
func ParseDuration(description string) (minutes int, ok bool) {
	var hours, mins int
	found := false

	if m := hoursPattern.FindStringSubmatch(description); m != nil {
		hours, _ = strconv.Atoi(m[1])
		found = true
	}
	if m := minutesPattern.FindStringSubmatch(description); m != nil {
		mins, _ = strconv.Atoi(m[1])
		found = true
	}

	total := hours*60 + mins
	if !found || total <= 0 {
		return 0, false
	}
	return total, true
}
