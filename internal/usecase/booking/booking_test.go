package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// 2026-10-19 is a Monday.
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

type fixedDurations int

func (d fixedDurations) DurationFor(string) int { return int(d) }

func book(t *testing.T, ledger domain.Ledger, date time.Time, hm string) {
	t.Helper()
	_, err := ledger.Insert(context.Background(), domain.NewBooking{
		Service:    "Cut",
		Date:       date,
		Time:       domain.MustTimeOfDay(hm),
		ClientName: "Test",
	})
	if err != nil {
		t.Fatalf("Insert %s %s: %v", domain.FormatDate(date), hm, err)
	}
}

// ======================================================
// GetAvailability
// ======================================================

func TestAvailabilityFromMondayRollsToTuesday(t *testing.T) {
	uc := NewGetAvailability(repository.NewBookingMemoryRepository(), domain.DefaultWeeklyHours(), fixedDurations(60))

	got, err := uc.Execute(context.Background(), "Cut", monday)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !got.Found() {
		t.Fatal("expected availability")
	}
	if got.Date.Weekday() != time.Tuesday || domain.FormatDate(got.Date) != "2026-10-20" {
		t.Fatalf("date = %s", domain.FormatDate(got.Date))
	}
	times := got.TimeStrings()
	if len(times) != 9 || times[0] != "09:30" || times[8] != "17:30" {
		t.Fatalf("times = %v", times)
	}
}

func TestAvailabilityExcludesBookedTimes(t *testing.T) {
	ledger := repository.NewBookingMemoryRepository()
	tuesday := monday.AddDate(0, 0, 1)
	book(t, ledger, tuesday, "09:30")
	book(t, ledger, tuesday, "13:30")

	uc := NewGetAvailability(ledger, domain.DefaultWeeklyHours(), fixedDurations(60))
	got, err := uc.Execute(context.Background(), "Cut", tuesday)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, hm := range got.TimeStrings() {
		if hm == "09:30" || hm == "13:30" {
			t.Fatalf("booked time %s offered", hm)
		}
	}
	if len(got.Times) != 7 {
		t.Fatalf("times = %v", got.TimeStrings())
	}
}

func TestAvailabilityFullDayMovesOn(t *testing.T) {
	ledger := repository.NewBookingMemoryRepository()
	tuesday := monday.AddDate(0, 0, 1)
	wh, _ := domain.DefaultWeeklyHours().HoursFor(time.Tuesday)
	for _, s := range domain.GenerateSlots(wh.Open, wh.Close, 60) {
		book(t, ledger, tuesday, s.String())
	}

	uc := NewGetAvailability(ledger, domain.DefaultWeeklyHours(), fixedDurations(60))
	got, err := uc.Execute(context.Background(), "Cut", tuesday)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Date.Weekday() != time.Wednesday {
		t.Fatalf("date = %s (%s)", domain.FormatDate(got.Date), got.Date.Weekday())
	}
}

func TestAvailabilityEmptyWhenWindowFull(t *testing.T) {
	ledger := repository.NewBookingMemoryRepository()
	hours := domain.WeeklyHours{
		time.Tuesday: {Open: domain.MustTimeOfDay("09:00"), Close: domain.MustTimeOfDay("10:00")},
	}
	book(t, ledger, monday.AddDate(0, 0, 1), "09:00")
	book(t, ledger, monday.AddDate(0, 0, 8), "09:00")

	uc := NewGetAvailability(ledger, hours, fixedDurations(60))
	got, err := uc.Execute(context.Background(), "Cut", monday)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Found() {
		t.Fatalf("expected nothing, got %s %v", domain.FormatDate(got.Date), got.TimeStrings())
	}
}

func TestAvailabilityNeverReturnsClosedDay(t *testing.T) {
	hours := domain.DefaultWeeklyHours()
	uc := NewGetAvailability(repository.NewBookingMemoryRepository(), hours, fixedDurations(135))

	for i := 0; i < 14; i++ {
		from := monday.AddDate(0, 0, i)
		got, err := uc.Execute(context.Background(), "Cut", from)
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if _, open := hours.HoursFor(got.Date.Weekday()); !open {
			t.Fatalf("from %s returned closed %s", domain.FormatDate(from), got.Date.Weekday())
		}
		if got.Date.Before(from) {
			t.Fatalf("from %s returned earlier date %s", domain.FormatDate(from), domain.FormatDate(got.Date))
		}
	}
}

type failingLedger struct{ domain.Ledger }

func (failingLedger) TimesBooked(context.Context, time.Time) (map[domain.TimeOfDay]struct{}, error) {
	return nil, errors.New("connection refused")
}

func TestAvailabilityPropagatesLedgerErrors(t *testing.T) {
	uc := NewGetAvailability(failingLedger{}, domain.DefaultWeeklyHours(), fixedDurations(60))
	if _, err := uc.Execute(context.Background(), "Cut", monday); err == nil {
		t.Fatal("expected error")
	}
}

// ======================================================
// CreateBooking
// ======================================================

type recordingReminders struct {
	scheduled []string
	err       error
}

func (r *recordingReminders) Schedule(_ context.Context, b *models.Booking) error {
	r.scheduled = append(r.scheduled, b.Reference)
	return r.err
}

func newCreate(ledger domain.Ledger, reminders ReminderScheduler) *CreateBooking {
	return NewCreateBooking(ledger, domain.DefaultWeeklyHours(), fixedDurations(60), nil, reminders, zap.NewNop())
}

func TestCreateBooking(t *testing.T) {
	reminders := &recordingReminders{}
	uc := newCreate(repository.NewBookingMemoryRepository(), reminders)

	cat := "  Colour "
	b, err := uc.Execute(context.Background(), CreateBookingInput{
		Service:    "Balayage",
		Category:   &cat,
		Date:       monday.AddDate(0, 0, 1),
		Time:       domain.MustTimeOfDay("09:30"),
		ClientName: "  Grace ",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if b.Reference != "ASU-20261020-001" || b.ClientName != "Grace" || *b.Category != "Colour" {
		t.Fatalf("unexpected booking %+v", b)
	}
	if len(reminders.scheduled) != 1 {
		t.Fatalf("reminders = %v", reminders.scheduled)
	}
}

func TestCreateBookingReminderFailureIsNotFatal(t *testing.T) {
	uc := newCreate(repository.NewBookingMemoryRepository(), &recordingReminders{err: errors.New("redis down")})

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		Service:    "Cut",
		Date:       monday.AddDate(0, 0, 2),
		Time:       domain.MustTimeOfDay("10:30"),
		ClientName: "Lin",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestCreateBookingRejections(t *testing.T) {
	uc := newCreate(repository.NewBookingMemoryRepository(), nil)
	tuesday := monday.AddDate(0, 0, 1)

	cases := []struct {
		name string
		in   CreateBookingInput
		code string
	}{
		{"blank name", CreateBookingInput{Service: "Cut", Date: tuesday, Time: domain.MustTimeOfDay("09:30"), ClientName: " "}, httperr.CodeInvalidRequest},
		{"blank service", CreateBookingInput{Date: tuesday, Time: domain.MustTimeOfDay("09:30"), ClientName: "A"}, httperr.CodeInvalidRequest},
		{"closed day", CreateBookingInput{Service: "Cut", Date: monday, Time: domain.MustTimeOfDay("10:00"), ClientName: "A"}, httperr.CodeOutsideWorkingHours},
		{"past close", CreateBookingInput{Service: "Cut", Date: tuesday, Time: domain.MustTimeOfDay("18:00"), ClientName: "A"}, httperr.CodeOutsideWorkingHours},
		{"off grid", CreateBookingInput{Service: "Cut", Date: tuesday, Time: domain.MustTimeOfDay("10:00"), ClientName: "A"}, httperr.CodeNotASlot},
	}

	for _, tc := range cases {
		_, err := uc.Execute(context.Background(), tc.in)
		if !httperr.IsBusiness(err, tc.code) {
			t.Errorf("%s: got %v, want %s", tc.name, err, tc.code)
		}
	}
}

func TestCreateBookingConflict(t *testing.T) {
	uc := newCreate(repository.NewBookingMemoryRepository(), nil)
	in := CreateBookingInput{
		Service:    "Cut",
		Date:       monday.AddDate(0, 0, 1),
		Time:       domain.MustTimeOfDay("11:30"),
		ClientName: "A",
	}

	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, httperr.CodePersistenceConflict) {
		t.Fatalf("got %v", err)
	}
}
