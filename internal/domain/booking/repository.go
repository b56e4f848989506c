package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// NewBooking is the data needed to commit an appointment.
type NewBooking struct {
	Service    string
	Category   *string
	Date       time.Time
	Time       TimeOfDay
	ClientName string
}

// Ledger is the durable store of confirmed bookings. At most one booking
// exists per (date, time) and references are unique.
type Ledger interface {
	// TimesBooked returns every time already committed on date.
	TimesBooked(
		ctx context.Context,
		date time.Time,
	) (map[TimeOfDay]struct{}, error)

	// Insert assigns the date-scoped reference and persists the booking.
	// A uniqueness violation is reported as persistence_conflict.
	Insert(
		ctx context.Context,
		in NewBooking,
	) (*models.Booking, error)

	// ListByDate returns the bookings of date ordered by time.
	ListByDate(
		ctx context.Context,
		date time.Time,
	) ([]models.Booking, error)
}
