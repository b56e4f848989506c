package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ListBookingsByDate struct {
	ledger domain.Ledger
}

func NewListBookingsByDate(ledger domain.Ledger) *ListBookingsByDate {
	return &ListBookingsByDate{ledger: ledger}
}

func (uc *ListBookingsByDate) Execute(
	ctx context.Context,
	date time.Time,
) ([]models.Booking, error) {
	return uc.ledger.ListByDate(ctx, date)
}
