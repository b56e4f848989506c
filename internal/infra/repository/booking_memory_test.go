package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

func newBooking(date time.Time, hm string) domain.NewBooking {
	return domain.NewBooking{
		Service:    "Blow Dry",
		Date:       date,
		Time:       domain.MustTimeOfDay(hm),
		ClientName: "Ada",
	}
}

func TestMemoryReferencesAreSequentialPerDate(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingMemoryRepository()
	day := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	want := []struct {
		date time.Time
		hm   string
		ref  string
	}{
		{day, "09:30", "ASU-20261020-001"},
		{day, "10:30", "ASU-20261020-002"},
		{next, "09:30", "ASU-20261021-001"},
		{day, "11:30", "ASU-20261020-003"},
	}

	for _, w := range want {
		b, err := repo.Insert(ctx, newBooking(w.date, w.hm))
		if err != nil {
			t.Fatalf("Insert %s %s: %v", domain.FormatDate(w.date), w.hm, err)
		}
		if b.Reference != w.ref {
			t.Errorf("reference = %s, want %s", b.Reference, w.ref)
		}
	}

	booked, err := repo.TimesBooked(ctx, day)
	if err != nil {
		t.Fatalf("TimesBooked: %v", err)
	}
	if len(booked) != 3 {
		t.Errorf("booked = %v", booked)
	}
}

func TestMemorySameSlotConflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingMemoryRepository()
	day := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	if _, err := repo.Insert(ctx, newBooking(day, "09:30")); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	_, err := repo.Insert(ctx, newBooking(day, "09:30"))
	if !httperr.IsBusiness(err, httperr.CodePersistenceConflict) {
		t.Fatalf("expected persistence_conflict, got %v", err)
	}

	// a failed insert must not consume a sequence number
	b, err := repo.Insert(ctx, newBooking(day, "10:30"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if b.Reference != "ASU-20261020-002" {
		t.Errorf("reference = %s", b.Reference)
	}
}

func TestMemoryConcurrentInsertsSameSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingMemoryRepository()
	day := time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC)

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Insert(ctx, newBooking(day, "14:30"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case httperr.IsBusiness(err, httperr.CodePersistenceConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || conflicts != n-1 {
		t.Fatalf("ok=%d conflicts=%d", ok, conflicts)
	}
	list, err := repo.ListByDate(ctx, day)
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("ledger holds %d bookings", len(list))
	}
}

func TestMemoryListByDateOrdersByTime(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingMemoryRepository()
	day := time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC)

	for _, hm := range []string{"15:00", "10:00", "12:00"} {
		if _, err := repo.Insert(ctx, newBooking(day, hm)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	list, err := repo.ListByDate(ctx, day)
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if list[0].Time != "10:00" || list[2].Time != "15:00" {
		t.Errorf("unexpected order: %v %v %v", list[0].Time, list[1].Time, list[2].Time)
	}
	if list[0].Reference != "ASU-20261024-002" {
		t.Errorf("reference follows insertion order, got %s", list[0].Reference)
	}
}
