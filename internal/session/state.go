// Package session holds the per-conversation booking selections. A
// session is one of a fixed set of states, each carrying exactly the
// fields that are valid at that step.
package session

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

type Step string

const (
	StepIdle           Step = "idle"
	StepCategoryChosen Step = "category_chosen"
	StepServiceChosen  Step = "service_chosen"
	StepDateResolved   Step = "date_resolved"
	StepAwaitingName   Step = "awaiting_name"
)

// State is implemented only by the variants in this package.
type State interface {
	Step() Step
	record() Record
}

type Idle struct{}

type CategoryChosen struct {
	Category string
}

type ServiceChosen struct {
	Category string
	Service  string
}

type DateResolved struct {
	Category string
	Service  string
	Date     time.Time
}

// AwaitingName has a time chosen and waits for the client's name.
type AwaitingName struct {
	Category string
	Service  string
	Date     time.Time
	Time     booking.TimeOfDay
}

func (Idle) Step() Step           { return StepIdle }
func (CategoryChosen) Step() Step { return StepCategoryChosen }
func (ServiceChosen) Step() Step  { return StepServiceChosen }
func (DateResolved) Step() Step   { return StepDateResolved }
func (AwaitingName) Step() Step   { return StepAwaitingName }

func (Idle) record() Record { return Record{} }

func (s CategoryChosen) record() Record {
	return Record{Category: s.Category}
}

func (s ServiceChosen) record() Record {
	return Record{Category: s.Category, Service: s.Service}
}

func (s DateResolved) record() Record {
	return Record{Category: s.Category, Service: s.Service, Date: booking.FormatDate(s.Date)}
}

func (s AwaitingName) record() Record {
	return Record{
		Category: s.Category,
		Service:  s.Service,
		Date:     booking.FormatDate(s.Date),
		Time:     s.Time.String(),
	}
}

// ===============================
// Persisted form
// ===============================

// Record is the flat stored shape. The populated fields must form a
// prefix of category, service, date, time.
type Record struct {
	Category string `json:"category,omitempty"`
	Service  string `json:"service,omitempty"`
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
}

func Encode(s State) Record {
	if s == nil {
		return Record{}
	}
	return s.record()
}

// Decode turns a stored record back into its state. Records with a gap
// in the field sequence or unparseable values are protocol violations.
func Decode(r Record) (State, error) {
	fields := []string{r.Category, r.Service, r.Date, r.Time}

	depth := 0
	for depth < len(fields) && fields[depth] != "" {
		depth++
	}
	for _, f := range fields[depth:] {
		if f != "" {
			return nil, httperr.Wrap(
				httperr.CodeProtocolViolation,
				fmt.Errorf("session record %+v is not a valid prefix", r),
			)
		}
	}

	switch depth {
	case 0:
		return Idle{}, nil
	case 1:
		return CategoryChosen{Category: r.Category}, nil
	case 2:
		return ServiceChosen{Category: r.Category, Service: r.Service}, nil
	}

	date, err := booking.ParseDate(r.Date)
	if err != nil {
		return nil, httperr.Wrap(httperr.CodeProtocolViolation, err)
	}
	if depth == 3 {
		return DateResolved{Category: r.Category, Service: r.Service, Date: date}, nil
	}

	tod, err := booking.ParseTimeOfDay(r.Time)
	if err != nil {
		return nil, httperr.Wrap(httperr.CodeProtocolViolation, err)
	}
	return AwaitingName{Category: r.Category, Service: r.Service, Date: date, Time: tod}, nil
}
