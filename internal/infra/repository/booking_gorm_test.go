package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/db"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// gormLedger opens the database named by DATABASE_URL and clears the
// given dates before and after the test. Without DATABASE_URL the test
// is skipped.
func gormLedger(t *testing.T, dates ...time.Time) *BookingGormRepository {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	conn, err := db.NewDB(&config.Config{DBUrl: url, Env: "test"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	wipe := func() {
		for _, d := range dates {
			conn.Where("date = ?", d).Delete(&models.Booking{})
			conn.Where("date = ?", d).Delete(&models.BookingCounter{})
		}
	}
	wipe()
	t.Cleanup(func() {
		wipe()
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return NewBookingGormRepository(conn)
}

func TestGormReferencesAndConflictRollback(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2099, 6, 16, 0, 0, 0, 0, time.UTC)
	repo := gormLedger(t, day)

	for i, want := range []struct{ hm, ref string }{
		{"09:30", "ASU-20990616-001"},
		{"10:30", "ASU-20990616-002"},
	} {
		b, err := repo.Insert(ctx, newBooking(day, want.hm))
		if err != nil {
			t.Fatalf("Insert #%d: %v", i, err)
		}
		if b.Reference != want.ref {
			t.Errorf("reference = %s, want %s", b.Reference, want.ref)
		}
	}

	_, err := repo.Insert(ctx, newBooking(day, "09:30"))
	if !httperr.IsBusiness(err, httperr.CodePersistenceConflict) {
		t.Fatalf("expected persistence_conflict, got %v", err)
	}

	// the conflicting insert rolled back its counter bump
	b, err := repo.Insert(ctx, newBooking(day, "11:30"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if b.Reference != "ASU-20990616-003" {
		t.Errorf("reference = %s, want ASU-20990616-003", b.Reference)
	}

	list, err := repo.ListByDate(ctx, day)
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(list) != 3 || list[0].Time != "09:30" || list[2].Time != "11:30" {
		t.Fatalf("list = %+v", list)
	}
}

func TestGormConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2099, 6, 17, 0, 0, 0, 0, time.UTC)
	repo := gormLedger(t, day)

	slots := []string{"09:30", "10:30", "11:30", "12:30", "13:30", "14:30", "15:30", "16:30"}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		refs      = map[string]bool{}
		conflicts int
	)
	insert := func(hm string) {
		defer wg.Done()
		b, err := repo.Insert(ctx, newBooking(day, hm))
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err == nil:
			if refs[b.Reference] {
				t.Errorf("duplicate reference %s", b.Reference)
			}
			refs[b.Reference] = true
		case httperr.IsBusiness(err, httperr.CodePersistenceConflict):
			conflicts++
		default:
			t.Errorf("Insert %s: %v", hm, err)
		}
	}

	// every slot is raced by two clients
	for _, hm := range slots {
		wg.Add(2)
		go insert(hm)
		go insert(hm)
	}
	wg.Wait()

	n := len(slots)
	if len(refs) != n || conflicts != n {
		t.Fatalf("refs=%d conflicts=%d", len(refs), conflicts)
	}

	var counter models.BookingCounter
	if err := repo.db.Where("date = ?", day).First(&counter).Error; err != nil {
		t.Fatal(err)
	}
	if counter.LastSeq != n {
		t.Fatalf("last_seq = %d, want %d", counter.LastSeq, n)
	}
}
