package flow

import (
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/session"
)

type Kind string

const (
	KindPrompt              Kind = "prompt"
	KindAdvisory            Kind = "advisory"
	KindProtocolViolation   Kind = "protocol_violation"
	KindNoAvailability      Kind = "no_availability"
	KindPersistenceConflict Kind = "persistence_conflict"
	KindConfirmed           Kind = "confirmed"
	KindCancelled           Kind = "cancelled"
	KindIncomplete          Kind = "incomplete"
)

// Action names double as the trigger a client sends back.
const (
	ActionCategory = "category"
	ActionService  = "service"
	ActionDate     = "date"
	ActionTime     = "time"
	ActionCancel   = "cancel"
	ActionBook     = "book"
	ActionExplore  = "explore"
	ActionHours    = "hours"
)

type Action struct {
	Name    string            `json:"name"`
	Label   string            `json:"label"`
	Payload map[string]string `json:"payload,omitempty"`
}

// Reply is what a transition shows the client. Transitions never return
// errors; faults surface as advisory kinds.
type Reply struct {
	Kind    Kind            `json:"kind"`
	Text    string          `json:"text"`
	Actions []Action        `json:"actions"`
	Booking *dto.BookingDTO `json:"booking,omitempty"`
	Step    session.Step    `json:"step"`
}

func valueAction(name, label, value string) Action {
	return Action{Name: name, Label: label, Payload: map[string]string{"value": value}}
}

func cancelAction() Action {
	return Action{Name: ActionCancel, Label: "❌ Exit Booking"}
}

func menuActions() []Action {
	return []Action{
		{Name: ActionBook, Label: "📅 Book Appointment"},
		{Name: ActionExplore, Label: "✨ Explore Services"},
		{Name: ActionHours, Label: "⏰ Opening Hours"},
	}
}
