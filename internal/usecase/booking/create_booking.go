package booking

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	Service    string
	Category   *string
	Date       time.Time
	Time       domain.TimeOfDay
	ClientName string
}

// ReminderScheduler queues the pre-appointment reminder for a booking.
type ReminderScheduler interface {
	Schedule(ctx context.Context, b *models.Booking) error
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	ledger    domain.Ledger
	hours     domain.WeeklyHours
	durations DurationSource
	audit     *audit.Dispatcher
	reminders ReminderScheduler
	log       *zap.Logger
}

func NewCreateBooking(
	ledger domain.Ledger,
	hours domain.WeeklyHours,
	durations DurationSource,
	audit *audit.Dispatcher,
	reminders ReminderScheduler,
	log *zap.Logger,
) *CreateBooking {
	return &CreateBooking{
		ledger:    ledger,
		hours:     hours,
		durations: durations,
		audit:     audit,
		reminders: reminders,
		log:       log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	service := strings.TrimSpace(in.Service)
	name := strings.TrimSpace(in.ClientName)
	if service == "" || name == "" || in.Date.IsZero() {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	var category *string
	if in.Category != nil {
		if c := strings.TrimSpace(*in.Category); c != "" {
			category = &c
		}
	}

	// --------------------------------------------------
	// Opening hours
	// --------------------------------------------------
	duration := uc.durations.DurationFor(service)
	if !uc.hours.IsWithin(in.Date, in.Time, duration) {
		return nil, httperr.ErrBusiness(httperr.CodeOutsideWorkingHours)
	}
	if !uc.hours.IsSlotStart(in.Date, in.Time, duration) {
		return nil, httperr.ErrBusiness(httperr.CodeNotASlot)
	}

	// --------------------------------------------------
	// Ledger
	// --------------------------------------------------
	b, err := uc.ledger.Insert(ctx, domain.NewBooking{
		Service:    service,
		Category:   category,
		Date:       in.Date,
		Time:       in.Time,
		ClientName: name,
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Side effects (never fail the booking)
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		Action:   "booking_created",
		Actor:    "client",
		Entity:   "booking",
		EntityID: b.ID.String(),
		Metadata: map[string]string{
			"reference": b.Reference,
			"date":      domain.FormatDate(b.Date),
			"time":      b.Time,
			"service":   b.Service,
		},
	})

	if uc.reminders != nil {
		if err := uc.reminders.Schedule(ctx, b); err != nil {
			uc.log.Warn("reminder not scheduled",
				zap.String("reference", b.Reference),
				zap.Error(err),
			)
		}
	}

	return b, nil
}

// InputFromRequest validates the wire form of a booking request.
func InputFromRequest(req dto.CreateBookingRequest) (CreateBookingInput, error) {
	date, err := domain.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return CreateBookingInput{}, httperr.Wrap(httperr.CodeInvalidRequest, err)
	}
	tod, err := domain.ParseTimeOfDay(strings.TrimSpace(req.Time))
	if err != nil {
		return CreateBookingInput{}, httperr.Wrap(httperr.CodeInvalidRequest, err)
	}

	return CreateBookingInput{
		Service:    req.Service,
		Category:   req.Category,
		Date:       date,
		Time:       tod,
		ClientName: req.ClientName,
	}, nil
}
