// Package reminder queues and delivers the message a client gets one day
// before their appointment.
package reminder

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

const (
	TypeBookingReminder = "booking:reminder"
	Lead                = 24 * time.Hour
)

type Payload struct {
	BookingID  string `json:"booking_id"`
	Reference  string `json:"reference"`
	Service    string `json:"service"`
	ClientName string `json:"client_name"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

func PayloadFor(b *models.Booking) Payload {
	return Payload{
		BookingID:  b.ID.String(),
		Reference:  b.Reference,
		Service:    b.Service,
		ClientName: b.ClientName,
		Date:       booking.FormatDate(b.Date),
		Time:       b.Time,
	}
}

// FireAt is Lead before the appointment starts in loc.
func FireAt(b *models.Booking, loc *time.Location) (time.Time, error) {
	tod, err := booking.ParseTimeOfDay(b.Time)
	if err != nil {
		return time.Time{}, err
	}
	return tod.On(b.Date, loc).Add(-Lead), nil
}

func NewTask(p Payload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + p.Reference),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

// Text is the reminder as delivered to the client.
func (p Payload) Text() string {
	return fmt.Sprintf(
		"⏰ Reminder: %s, your %s appointment is tomorrow (%s) at %s. Reference: %s.",
		p.ClientName, p.Service, p.Date, p.Time, p.Reference,
	)
}
