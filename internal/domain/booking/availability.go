package booking

import "time"

// LookaheadDays bounds how far the resolver searches forward.
const LookaheadDays = 14

// Availability is the first day with free slots found by the resolver.
// The zero value means nothing was free in the lookahead window.
type Availability struct {
	Date  time.Time
	Times []TimeOfDay
}

func (a Availability) Found() bool {
	return len(a.Times) > 0
}

func (a Availability) TimeStrings() []string {
	out := make([]string, 0, len(a.Times))
	for _, t := range a.Times {
		out = append(out, t.String())
	}
	return out
}

// Subtract removes booked times from slots keeping the generated order.
func Subtract(slots []TimeOfDay, booked map[TimeOfDay]struct{}) []TimeOfDay {
	out := make([]TimeOfDay, 0, len(slots))
	for _, s := range slots {
		if _, taken := booked[s]; taken {
			continue
		}
		out = append(out, s)
	}
	return out
}
