package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *BookingGormRepository) TimesBooked(
	ctx context.Context,
	date time.Time,
) (map[domain.TimeOfDay]struct{}, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("date = ?", domain.DateOf(date)).
		Pluck("time", &times).Error; err != nil {
		return nil, fmt.Errorf("times booked: %w", err)
	}

	booked := make(map[domain.TimeOfDay]struct{}, len(times))
	for _, hm := range times {
		t, err := domain.ParseTimeOfDay(hm)
		if err != nil {
			return nil, fmt.Errorf("stored booking time: %w", err)
		}
		booked[t] = struct{}{}
	}
	return booked, nil
}

// --------------------------------------------------
// Insert
// --------------------------------------------------

// Insert takes the per-date counter row lock, bumps the sequence and
// creates the booking in one transaction. If the slot insert fails the
// counter bump rolls back with it.
func (r *BookingGormRepository) Insert(
	ctx context.Context,
	in domain.NewBooking,
) (*models.Booking, error) {

	date := domain.DateOf(in.Date)
	var created models.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// seed from existing rows so ledgers created before the counter
		// table keep their numbering
		if err := tx.Exec(`
			INSERT INTO booking_counters (date, last_seq)
			SELECT ?, COUNT(*) FROM bookings WHERE date = ?
			ON CONFLICT (date) DO NOTHING`,
			date, date,
		).Error; err != nil {
			return err
		}

		var counter models.BookingCounter
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("date = ?", date).
			First(&counter).Error; err != nil {
			return err
		}

		next := counter.LastSeq + 1
		if err := tx.Model(&models.BookingCounter{}).
			Where("date = ?", date).
			Update("last_seq", next).Error; err != nil {
			return err
		}

		created = models.Booking{
			ID:         uuid.New(),
			Service:    in.Service,
			Category:   in.Category,
			Date:       date,
			Time:       in.Time.String(),
			ClientName: in.ClientName,
			Reference:  domain.FormatReference(date, next),
		}
		return tx.Create(&created).Error
	})

	if err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.Wrap(httperr.CodePersistenceConflict, err)
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	return &created, nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *BookingGormRepository) ListByDate(
	ctx context.Context,
	date time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("date = ?", domain.DateOf(date)).
		Order("time ASC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// Compile-time check
var _ domain.Ledger = (*BookingGormRepository)(nil)
