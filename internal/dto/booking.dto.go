package dto

import (
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type BookingDTO struct {
	ID         string  `json:"id"`
	Service    string  `json:"service"`
	Category   *string `json:"category"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	ClientName string  `json:"client_name"`
	Reference  string  `json:"reference"`
}

func FromBooking(b *models.Booking) BookingDTO {
	return BookingDTO{
		ID:         b.ID.String(),
		Service:    b.Service,
		Category:   b.Category,
		Date:       booking.FormatDate(b.Date),
		Time:       b.Time,
		ClientName: b.ClientName,
		Reference:  b.Reference,
	}
}

// AvailableTimesDTO is always returned with 200; Date is null when
// nothing is free in the lookahead window.
type AvailableTimesDTO struct {
	Date      *string  `json:"date"`
	Available []string `json:"available"`
	Error     string   `json:"error,omitempty"`
}

type CreateBookingRequest struct {
	Service    string  `json:"service" binding:"required"`
	Category   *string `json:"category"`
	Date       string  `json:"date" binding:"required,isodate"`
	Time       string  `json:"time" binding:"required,hhmm"`
	ClientName string  `json:"client_name" binding:"required"`
}

type HoursDTO struct {
	Text string                `json:"text"`
	Days []booking.DaySchedule `json:"days"`
}
