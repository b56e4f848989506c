package booking

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// OpenHours is the open/close window of a single weekday.
type OpenHours struct {
	Open  TimeOfDay `yaml:"open" json:"open"`
	Close TimeOfDay `yaml:"close" json:"close"`
}

// WeeklyHours maps a weekday to its opening window. A missing weekday is
// closed.
type WeeklyHours map[time.Weekday]OpenHours

// DefaultWeeklyHours is the salon's published schedule: closed Monday
// and Friday.
func DefaultWeeklyHours() WeeklyHours {
	weekday := OpenHours{Open: MustTimeOfDay("09:30"), Close: MustTimeOfDay("18:30")}
	weekend := OpenHours{Open: MustTimeOfDay("10:00"), Close: MustTimeOfDay("18:30")}

	return WeeklyHours{
		time.Tuesday:   weekday,
		time.Wednesday: weekday,
		time.Thursday:  weekday,
		time.Saturday:  weekend,
		time.Sunday:    weekend,
	}
}

func (w WeeklyHours) HoursFor(day time.Weekday) (OpenHours, bool) {
	h, ok := w[day]
	return h, ok
}

// IsWithin reports whether [start, start+duration) fits inside the
// opening window of date's weekday.
func (w WeeklyHours) IsWithin(date time.Time, start TimeOfDay, durationMinutes int) bool {
	h, ok := w.HoursFor(date.Weekday())
	if !ok {
		return false
	}
	return start >= h.Open && start.Add(durationMinutes) <= h.Close
}

// IsSlotStart reports whether start is one of the slots GenerateSlots
// tiles for date's weekday at the given duration.
func (w WeeklyHours) IsSlotStart(date time.Time, start TimeOfDay, durationMinutes int) bool {
	if durationMinutes <= 0 || !w.IsWithin(date, start, durationMinutes) {
		return false
	}
	h, _ := w.HoursFor(date.Weekday())
	return int(start-h.Open)%durationMinutes == 0
}

// ===============================
// YAML loading
// ===============================

type hoursFile struct {
	Days map[string]*OpenHours `yaml:"days"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// LoadWeeklyHours reads a schedule such as:
//
//	days:
//	  monday: ~
//	  tuesday: {open: "09:30", close: "18:30"}
//
// Days that are absent or null are closed.
func LoadWeeklyHours(path string) (WeeklyHours, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hours file: %w", err)
	}

	var f hoursFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse hours file: %w", err)
	}

	out := WeeklyHours{}
	for name, h := range f.Days {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		if h == nil {
			continue
		}
		if h.Close <= h.Open {
			return nil, fmt.Errorf("%s: close %s must be after open %s", name, h.Close, h.Open)
		}
		out[day] = *h
	}
	return out, nil
}

// ===============================
// Display
// ===============================

// DaySchedule is one row of the published opening hours.
type DaySchedule struct {
	Weekday string `json:"weekday"`
	Open    string `json:"open,omitempty"`
	Close   string `json:"close,omitempty"`
	Closed  bool   `json:"closed"`
}

// Schedule lists the week starting on Monday, the way the salon prints it.
func (w WeeklyHours) Schedule() []DaySchedule {
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}

	out := make([]DaySchedule, 0, len(order))
	for _, day := range order {
		row := DaySchedule{Weekday: day.String()}
		if h, ok := w.HoursFor(day); ok {
			row.Open = h.Open.String()
			row.Close = h.Close.String()
		} else {
			row.Closed = true
		}
		out = append(out, row)
	}
	return out
}
