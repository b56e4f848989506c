package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// BookingMemoryRepository is a process-local ledger with the same
// uniqueness rules as the Postgres one. Used with LEDGER_STORE=memory
// and in tests.
type BookingMemoryRepository struct {
	mu       sync.Mutex
	byDate   map[string][]models.Booking
	counters map[string]int
	now      func() time.Time
}

func NewBookingMemoryRepository() *BookingMemoryRepository {
	return &BookingMemoryRepository{
		byDate:   map[string][]models.Booking{},
		counters: map[string]int{},
		now:      time.Now,
	}
}

func (r *BookingMemoryRepository) TimesBooked(
	ctx context.Context,
	date time.Time,
) (map[domain.TimeOfDay]struct{}, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	booked := map[domain.TimeOfDay]struct{}{}
	for _, b := range r.byDate[domain.FormatDate(date)] {
		t, err := domain.ParseTimeOfDay(b.Time)
		if err != nil {
			return nil, err
		}
		booked[t] = struct{}{}
	}
	return booked, nil
}

func (r *BookingMemoryRepository) Insert(
	ctx context.Context,
	in domain.NewBooking,
) (*models.Booking, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	date := domain.DateOf(in.Date)
	key := domain.FormatDate(date)
	hm := in.Time.String()

	for _, b := range r.byDate[key] {
		if b.Time == hm {
			return nil, httperr.Wrap(
				httperr.CodePersistenceConflict,
				fmt.Errorf("slot %s %s already booked", key, hm),
			)
		}
	}

	r.counters[key]++
	b := models.Booking{
		ID:         uuid.New(),
		Service:    in.Service,
		Category:   in.Category,
		Date:       date,
		Time:       hm,
		ClientName: in.ClientName,
		Reference:  domain.FormatReference(date, r.counters[key]),
		CreatedAt:  r.now(),
	}
	r.byDate[key] = append(r.byDate[key], b)

	return &b, nil
}

func (r *BookingMemoryRepository) ListByDate(
	ctx context.Context,
	date time.Time,
) ([]models.Booking, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	out := append([]models.Booking(nil), r.byDate[domain.FormatDate(date)]...)
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

// Compile-time check
var _ domain.Ledger = (*BookingMemoryRepository)(nil)
