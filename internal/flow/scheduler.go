package flow

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	ucBooking "github.com/BruksfildServices01/salon-scheduler/internal/usecase/booking"
)

// Scheduler is the booking backend the flow drives. Errors carry
// httperr business codes where the cause is known.
type Scheduler interface {
	AvailableTimes(ctx context.Context, service string, from time.Time) (domain.Availability, error)
	CreateBooking(ctx context.Context, req dto.CreateBookingRequest) (*dto.BookingDTO, error)
}

// LocalScheduler runs the booking use cases in-process.
type LocalScheduler struct {
	availability *ucBooking.GetAvailability
	create       *ucBooking.CreateBooking
}

func NewLocalScheduler(
	availability *ucBooking.GetAvailability,
	create *ucBooking.CreateBooking,
) *LocalScheduler {
	return &LocalScheduler{availability: availability, create: create}
}

func (s *LocalScheduler) AvailableTimes(
	ctx context.Context,
	service string,
	from time.Time,
) (domain.Availability, error) {
	return s.availability.Execute(ctx, service, from)
}

func (s *LocalScheduler) CreateBooking(
	ctx context.Context,
	req dto.CreateBookingRequest,
) (*dto.BookingDTO, error) {

	in, err := ucBooking.InputFromRequest(req)
	if err != nil {
		return nil, err
	}

	b, err := s.create.Execute(ctx, in)
	if err != nil {
		return nil, err
	}

	out := dto.FromBooking(b)
	return &out, nil
}

var _ Scheduler = (*LocalScheduler)(nil)
