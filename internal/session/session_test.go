package session

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

func TestDecodeValidPrefixes(t *testing.T) {
	cases := []struct {
		rec  Record
		want Step
	}{
		{Record{}, StepIdle},
		{Record{Category: "Colour"}, StepCategoryChosen},
		{Record{Category: "Colour", Service: "Balayage"}, StepServiceChosen},
		{Record{Category: "Colour", Service: "Balayage", Date: "2026-10-20"}, StepDateResolved},
		{Record{Category: "Colour", Service: "Balayage", Date: "2026-10-20", Time: "10:30"}, StepAwaitingName},
	}

	for _, tc := range cases {
		st, err := Decode(tc.rec)
		if err != nil {
			t.Fatalf("Decode(%+v): %v", tc.rec, err)
		}
		if st.Step() != tc.want {
			t.Errorf("Decode(%+v) step = %s, want %s", tc.rec, st.Step(), tc.want)
		}
		if Encode(st) != tc.rec {
			t.Errorf("Encode(Decode(%+v)) = %+v", tc.rec, Encode(st))
		}
	}
}

func TestDecodeRejectsGaps(t *testing.T) {
	bad := []Record{
		{Service: "Balayage"},
		{Category: "Colour", Date: "2026-10-20"},
		{Category: "Colour", Service: "Balayage", Time: "10:30"},
		{Category: "Colour", Service: "Balayage", Date: "20/10/2026"},
		{Category: "Colour", Service: "Balayage", Date: "2026-10-20", Time: "noon"},
	}

	for _, rec := range bad {
		if _, err := Decode(rec); !httperr.IsBusiness(err, httperr.CodeProtocolViolation) {
			t.Errorf("Decode(%+v) = %v, want protocol_violation", rec, err)
		}
	}
}

func TestDecodeRecordRejectsUnreadableBytes(t *testing.T) {
	for _, data := range []string{"", "not json", `{"category":`, `["Colour"]`} {
		if _, err := decodeRecord([]byte(data)); !httperr.IsBusiness(err, httperr.CodeProtocolViolation) {
			t.Errorf("decodeRecord(%q) = %v, want protocol_violation", data, err)
		}
	}

	st, err := decodeRecord([]byte(`{"category":"Colour","service":"Balayage"}`))
	if err != nil {
		t.Fatal(err)
	}
	if st.Step() != StepServiceChosen {
		t.Fatalf("step = %s", st.Step())
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	st, err := s.Load(ctx, "abc")
	if err != nil || st.Step() != StepIdle {
		t.Fatalf("Load unknown = %v, %v", st, err)
	}

	want := AwaitingName{
		Category: "Colour",
		Service:  "Balayage",
		Date:     time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		Time:     booking.MustTimeOfDay("10:30"),
	}
	if err := s.Save(ctx, "abc", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "abc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	an, ok := got.(AwaitingName)
	if !ok || an.Service != want.Service || !an.Date.Equal(want.Date) || an.Time != want.Time {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}

	now = now.Add(2 * time.Minute)
	if st, _ := s.Load(ctx, "abc"); st.Step() != StepIdle {
		t.Fatalf("expired session returned %s", st.Step())
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	_ = s.Save(ctx, "old", CategoryChosen{Category: "Beauty"})
	now = now.Add(45 * time.Second)
	_ = s.Save(ctx, "new", CategoryChosen{Category: "Beauty"})
	now = now.Add(30 * time.Second)

	if n := s.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d, want 1", n)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d", s.Len())
	}
	if err := s.Delete(ctx, "new"); err != nil || s.Len() != 0 {
		t.Fatalf("Delete: %v, len %d", err, s.Len())
	}
}
