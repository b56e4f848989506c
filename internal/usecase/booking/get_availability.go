package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
)

// DurationSource resolves a service name to its length in minutes.
type DurationSource interface {
	DurationFor(service string) int
}

type GetAvailability struct {
	ledger    domain.Ledger
	hours     domain.WeeklyHours
	durations DurationSource
}

func NewGetAvailability(
	ledger domain.Ledger,
	hours domain.WeeklyHours,
	durations DurationSource,
) *GetAvailability {
	return &GetAvailability{
		ledger:    ledger,
		hours:     hours,
		durations: durations,
	}
}

// Execute returns the first day on or after from that still has free
// slots for service, looking at most LookaheadDays ahead. An empty
// Availability is a normal result.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	service string,
	from time.Time,
) (domain.Availability, error) {

	duration := uc.durations.DurationFor(service)
	day := domain.DateOf(from)

	for i := 0; i < domain.LookaheadDays; i, day = i+1, day.AddDate(0, 0, 1) {

		wh, open := uc.hours.HoursFor(day.Weekday())
		if !open {
			continue
		}

		slots := domain.GenerateSlots(wh.Open, wh.Close, duration)
		if len(slots) == 0 {
			continue
		}

		booked, err := uc.ledger.TimesBooked(ctx, day)
		if err != nil {
			return domain.Availability{}, fmt.Errorf("availability %s: %w", domain.FormatDate(day), err)
		}

		if free := domain.Subtract(slots, booked); len(free) > 0 {
			return domain.Availability{Date: day, Times: free}, nil
		}
	}

	return domain.Availability{}, nil
}
