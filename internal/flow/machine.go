// Package flow drives a client through category, service, date, time and
// name, one transition per button press or message.
package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/catalog"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/session"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// DateChoices is how many upcoming days are offered after a service is
// picked, starting tomorrow.
const DateChoices = 7

const (
	msgSelectServiceFirst = "⚠️ I couldn't find the service you want to book. Please select a service first."
	msgChooseCategory     = "⚠️ Please choose a category first."
	msgStateLost          = "⚠️ Booking state lost. Let's start again."
	msgIncomplete         = "⚠️ Booking data incomplete. Please start again."
	msgNoSlots            = "⚠️ Sorry, no available slots in the next 14 days. Please try a later date."
	msgUnreachable        = "⚠️ Could not reach the booking server. Please try again shortly."
	msgBadResponse        = "⚠️ Unexpected response from booking server. Please try again later."
	msgSessionUnavailable = "⚠️ Your booking session is unavailable right now. Please try again shortly."
	msgConflict           = "⚠️ Sorry, that time was just booked by someone else. Please pick another time."
	msgNoReference        = "⚠️ Booking was created but we did not receive a confirmation reference. Please contact the salon."
	msgAssistantDown      = "⚠️ Sorry, I can't answer that right now. You can still book or browse our services below."
)

// Assistant answers free-text questions outside the booking steps.
type Assistant interface {
	Run(ctx context.Context, sessionID, input string) (string, error)
}

type Deps struct {
	Catalog   *catalog.Catalog
	Hours     domain.WeeklyHours
	Scheduler Scheduler
	Store     session.Store
	Assistant Assistant // optional
	Location  *time.Location
	Log       *zap.Logger
}

type Machine struct {
	catalog   *catalog.Catalog
	hours     domain.WeeklyHours
	scheduler Scheduler
	store     session.Store
	assistant Assistant
	loc       *time.Location
	log       *zap.Logger
	locks     *sessionLocks
	now       func() time.Time
}

func NewMachine(d Deps) *Machine {
	loc := d.Location
	if loc == nil {
		loc = timezone.Location(timezone.DefaultTimezone)
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Machine{
		catalog:   d.Catalog,
		hours:     d.Hours,
		scheduler: d.Scheduler,
		store:     d.Store,
		assistant: d.Assistant,
		loc:       loc,
		log:       log.Named("flow"),
		locks:     newSessionLocks(),
		now:       time.Now,
	}
}

// ======================================================
// TRANSITIONS
// ======================================================

// Start discards any previous selections and offers the categories.
func (m *Machine) Start(ctx context.Context, id string) Reply {
	defer m.locks.lock(id)()
	return m.start(ctx, id)
}

func (m *Machine) SelectCategory(ctx context.Context, id, category string) Reply {
	defer m.locks.lock(id)()

	category = strings.TrimSpace(category)
	if category == "" {
		return m.categoriesReply(KindAdvisory, msgChooseCategory, session.StepIdle)
	}

	if err := m.store.Save(ctx, id, session.CategoryChosen{Category: category}); err != nil {
		return m.storeFault(id, err)
	}
	return m.servicesReply(KindPrompt, category, "", session.StepCategoryChosen)
}

func (m *Machine) SelectService(ctx context.Context, id, name string) Reply {
	defer m.locks.lock(id)()

	st, fault := m.load(ctx, id)
	if fault != nil {
		return *fault
	}

	category, ok := categoryOf(st)
	if !ok {
		return m.violation(ctx, id, msgChooseCategory)
	}

	svc, found := m.catalog.Find(name)
	if !found {
		text := fmt.Sprintf("⚠️ I couldn't find a service called %q. Please pick one from the list.", strings.TrimSpace(name))
		return m.servicesReply(KindAdvisory, category, text, st.Step())
	}

	if err := m.store.Save(ctx, id, session.ServiceChosen{Category: category, Service: svc.Name}); err != nil {
		return m.storeFault(id, err)
	}

	return Reply{
		Kind: KindPrompt,
		Text: fmt.Sprintf(
			"✅ %s selected\n💰 %s   ⏱ %s\n\n📅 Please select your preferred date:",
			svc.Name, svc.Price, svc.Description,
		),
		Actions: m.dateActions(),
		Step:    session.StepServiceChosen,
	}
}

func (m *Machine) ProvideDate(ctx context.Context, id, raw string) Reply {
	defer m.locks.lock(id)()

	st, fault := m.load(ctx, id)
	if fault != nil {
		return *fault
	}
	return m.provideDate(ctx, id, st, raw)
}

func (m *Machine) SelectTime(ctx context.Context, id, raw string) Reply {
	defer m.locks.lock(id)()

	st, fault := m.load(ctx, id)
	if fault != nil {
		return *fault
	}

	var category, service string
	var date time.Time
	switch s := st.(type) {
	case session.DateResolved:
		category, service, date = s.Category, s.Service, s.Date
	case session.AwaitingName:
		category, service, date = s.Category, s.Service, s.Date
	default:
		return m.violation(ctx, id, msgStateLost)
	}

	tod, err := domain.ParseTimeOfDay(strings.TrimSpace(raw))
	if err != nil {
		return Reply{
			Kind:    KindAdvisory,
			Text:    "⚠️ Please pick one of the times shown.",
			Actions: []Action{cancelAction()},
			Step:    st.Step(),
		}
	}

	avail, err := m.scheduler.AvailableTimes(ctx, service, date)
	if err != nil {
		return m.collaboratorFault(id, st, err)
	}
	if !offered(avail, date, tod) {
		return m.timeNotOffered(st, date, tod, avail)
	}

	next := session.AwaitingName{Category: category, Service: service, Date: date, Time: tod}
	if err := m.store.Save(ctx, id, next); err != nil {
		return m.storeFault(id, err)
	}

	return Reply{
		Kind: KindPrompt,
		Text: fmt.Sprintf(
			"📋 Appointment Summary\n- Service: %s\n- Date: %s\n- Time: %s\n\n👉 To complete your booking, may I have your name?",
			service, domain.FormatDate(date), tod,
		),
		Actions: []Action{cancelAction()},
		Step:    session.StepAwaitingName,
	}
}

func (m *Machine) Finalize(ctx context.Context, id, name string) Reply {
	defer m.locks.lock(id)()

	st, fault := m.load(ctx, id)
	if fault != nil {
		return *fault
	}
	return m.finalize(ctx, id, st, name)
}

// Cancel drops the session from any step.
func (m *Machine) Cancel(ctx context.Context, id string) Reply {
	defer m.locks.lock(id)()

	if err := m.store.Delete(ctx, id); err != nil {
		m.log.Warn("session delete failed", zap.String("session_id", id), zap.Error(err))
	}
	return Reply{
		Kind:    KindCancelled,
		Text:    "Booking cancelled. Is there anything else I can help you with?",
		Actions: menuActions(),
		Step:    session.StepIdle,
	}
}

// Message routes free text: a date while one is expected, a name while
// one is expected, otherwise the assistant.
func (m *Machine) Message(ctx context.Context, id, text string) Reply {
	defer m.locks.lock(id)()

	st, fault := m.load(ctx, id)
	if fault != nil {
		return *fault
	}

	switch st.(type) {
	case session.ServiceChosen:
		return m.provideDate(ctx, id, st, text)
	case session.AwaitingName:
		return m.finalize(ctx, id, st, text)
	}

	trimmed := strings.TrimSpace(text)
	if isGreeting(trimmed) {
		return Reply{
			Kind:    KindPrompt,
			Text:    "👋 Welcome! I can help you book an appointment, explore our services or check our opening hours.",
			Actions: menuActions(),
			Step:    st.Step(),
		}
	}

	if m.assistant == nil || trimmed == "" {
		return Reply{Kind: KindAdvisory, Text: msgAssistantDown, Actions: menuActions(), Step: st.Step()}
	}

	answer, err := m.assistant.Run(ctx, id, trimmed)
	if err != nil {
		m.log.Warn("assistant failed", zap.String("session_id", id), zap.Error(err))
		return Reply{Kind: KindAdvisory, Text: msgAssistantDown, Actions: menuActions(), Step: st.Step()}
	}

	return Reply{Kind: KindPrompt, Text: answer, Actions: menuActions(), Step: st.Step()}
}

// Explore lists the whole menu. It does not touch the session.
func (m *Machine) Explore() Reply {
	return Reply{
		Kind:    KindPrompt,
		Text:    catalog.FormatGroups(m.catalog.Grouped()),
		Actions: []Action{{Name: ActionBook, Label: "📅 Book Appointment"}},
	}
}

func (m *Machine) Hours() Reply {
	return Reply{
		Kind:    KindPrompt,
		Text:    HoursText(m.hours),
		Actions: []Action{{Name: ActionBook, Label: "📅 Book Appointment"}},
	}
}

// ======================================================
// TRANSITION BODIES (caller holds the session lock)
// ======================================================

func (m *Machine) start(ctx context.Context, id string) Reply {
	if err := m.store.Save(ctx, id, session.Idle{}); err != nil {
		return m.storeFault(id, err)
	}
	return m.categoriesReply(KindPrompt, "📅 **Select a Category to Begin Booking**", session.StepIdle)
}

func (m *Machine) provideDate(ctx context.Context, id string, st session.State, raw string) Reply {
	var category, service string
	switch s := st.(type) {
	case session.ServiceChosen:
		category, service = s.Category, s.Service
	case session.DateResolved:
		category, service = s.Category, s.Service
	case session.AwaitingName:
		category, service = s.Category, s.Service
	default:
		return m.violation(ctx, id, msgSelectServiceFirst)
	}

	from, err := domain.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return Reply{
			Kind:    KindAdvisory,
			Text:    "⚠️ I didn't understand that date. Please pick one below or type it as YYYY-MM-DD.",
			Actions: m.dateActions(),
			Step:    st.Step(),
		}
	}

	avail, err := m.scheduler.AvailableTimes(ctx, service, from)
	if err != nil {
		return m.collaboratorFault(id, st, err)
	}

	if !avail.Found() {
		if err := m.store.Save(ctx, id, session.ServiceChosen{Category: category, Service: service}); err != nil {
			return m.storeFault(id, err)
		}
		return Reply{
			Kind:    KindNoAvailability,
			Text:    msgNoSlots,
			Actions: []Action{cancelAction()},
			Step:    session.StepServiceChosen,
		}
	}

	next := session.DateResolved{Category: category, Service: service, Date: avail.Date}
	if err := m.store.Save(ctx, id, next); err != nil {
		return m.storeFault(id, err)
	}

	return Reply{
		Kind:    KindPrompt,
		Text:    fmt.Sprintf("📅 Available times on %s:", domain.FormatDate(avail.Date)),
		Actions: timeActions(avail),
		Step:    session.StepDateResolved,
	}
}

// timeNotOffered answers a time that is not free on the stored date. The
// session is left untouched.
func (m *Machine) timeNotOffered(st session.State, date time.Time, tod domain.TimeOfDay, avail domain.Availability) Reply {
	day := domain.FormatDate(date)

	if avail.Found() && avail.Date.Equal(date) {
		return Reply{
			Kind:    KindAdvisory,
			Text:    fmt.Sprintf("⚠️ %s is not available on %s. Please pick one of these times:", tod, day),
			Actions: timeActions(avail),
			Step:    st.Step(),
		}
	}

	return Reply{
		Kind: KindAdvisory,
		Text: fmt.Sprintf("⚠️ There are no free times left on %s.", day),
		Actions: []Action{
			valueAction(ActionDate, "🔄 Show available times", day),
			cancelAction(),
		},
		Step: st.Step(),
	}
}

func (m *Machine) finalize(ctx context.Context, id string, st session.State, name string) Reply {
	s, ok := st.(session.AwaitingName)
	if !ok {
		m.drop(ctx, id)
		return Reply{Kind: KindIncomplete, Text: msgIncomplete, Actions: menuActions(), Step: session.StepIdle}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Reply{
			Kind:    KindAdvisory,
			Text:    "👉 Please tell me your name to complete the booking.",
			Actions: []Action{cancelAction()},
			Step:    session.StepAwaitingName,
		}
	}

	var category *string
	if s.Category != "" {
		c := s.Category
		category = &c
	}

	created, err := m.scheduler.CreateBooking(ctx, dto.CreateBookingRequest{
		Service:    s.Service,
		Category:   category,
		Date:       domain.FormatDate(s.Date),
		Time:       s.Time.String(),
		ClientName: name,
	})
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodePersistenceConflict) {
			return Reply{
				Kind: KindPersistenceConflict,
				Text: msgConflict,
				Actions: []Action{
					valueAction(ActionDate, "🔄 Show available times", domain.FormatDate(s.Date)),
					cancelAction(),
				},
				Step: session.StepAwaitingName,
			}
		}
		return m.collaboratorFault(id, st, err)
	}

	if created == nil || created.Reference == "" {
		m.drop(ctx, id)
		return Reply{Kind: KindAdvisory, Text: msgNoReference, Actions: menuActions(), Step: session.StepIdle}
	}

	reply := Reply{
		Kind: KindConfirmed,
		Text: fmt.Sprintf(
			"🎉 **Booking Confirmed!**\n\n📋 Appointment Summary\n- Service: %s\n- Date: %s\n- Time: %s\n- Client: %s\n- Reference: %s\n\n✅ You'll receive a reminder 24 hours before your appointment.",
			s.Service, domain.FormatDate(s.Date), s.Time, name, created.Reference,
		),
		Actions: []Action{
			{Name: ActionBook, Label: "📅 Book Another Appointment"},
			{Name: ActionExplore, Label: "✨ Explore Services"},
			{Name: ActionHours, Label: "⏰ Opening Hours"},
		},
		Booking: created,
		Step:    session.StepIdle,
	}

	m.drop(ctx, id)
	return reply
}

// ======================================================
// HELPERS
// ======================================================

// load returns the session state, or the reply to send when it cannot be
// used. Corrupt records restart the flow.
func (m *Machine) load(ctx context.Context, id string) (session.State, *Reply) {
	st, err := m.store.Load(ctx, id)
	if err == nil {
		return st, nil
	}
	if httperr.IsBusiness(err, httperr.CodeProtocolViolation) {
		r := m.violation(ctx, id, msgStateLost)
		return nil, &r
	}
	r := m.storeFault(id, err)
	return nil, &r
}

// violation discards the session and restarts at category selection.
func (m *Machine) violation(ctx context.Context, id, text string) Reply {
	m.drop(ctx, id)
	return m.categoriesReply(KindProtocolViolation, text, session.StepIdle)
}

func (m *Machine) drop(ctx context.Context, id string) {
	if err := m.store.Delete(ctx, id); err != nil {
		m.log.Warn("session delete failed", zap.String("session_id", id), zap.Error(err))
	}
}

func (m *Machine) storeFault(id string, err error) Reply {
	m.log.Error("session store failed", zap.String("session_id", id), zap.Error(err))
	return Reply{Kind: KindAdvisory, Text: msgSessionUnavailable, Actions: menuActions(), Step: session.StepIdle}
}

// collaboratorFault turns a scheduler error into an advisory. The session
// is left as it was.
func (m *Machine) collaboratorFault(id string, st session.State, err error) Reply {
	code, _ := httperr.CodeOf(err)
	m.log.Warn("booking backend fault",
		zap.String("session_id", id),
		zap.String("code", code),
		zap.Error(err),
	)

	text := msgUnreachable
	switch code {
	case httperr.CodeCollaboratorBadResponse:
		text = msgBadResponse
	case httperr.CodeInvalidRequest, httperr.CodeOutsideWorkingHours, httperr.CodeNotASlot:
		text = "⚠️ That booking could not be accepted. Please choose another time."
	}

	return Reply{Kind: KindAdvisory, Text: text, Actions: []Action{cancelAction()}, Step: st.Step()}
}

func (m *Machine) categoriesReply(kind Kind, text string, step session.Step) Reply {
	cats := m.catalog.Categories()
	actions := make([]Action, 0, len(cats))
	for _, c := range cats {
		actions = append(actions, valueAction(ActionCategory, "💎 "+c, c))
	}
	return Reply{Kind: kind, Text: text, Actions: actions, Step: step}
}

func (m *Machine) servicesReply(kind Kind, category, notice string, step session.Step) Reply {
	services := m.catalog.InCategory(category)

	var b strings.Builder
	if notice != "" {
		b.WriteString(notice)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "💎 **%s**\n─────────────────────────\n", category)
	if len(services) == 0 {
		b.WriteString("There are no services in this category yet.")
	} else {
		b.WriteString("Please choose a service:")
	}

	actions := make([]Action, 0, len(services)+1)
	for _, s := range services {
		label := fmt.Sprintf("%s — %s (%s)", s.Name, s.Price, s.Description)
		actions = append(actions, valueAction(ActionService, label, s.Name))
	}
	actions = append(actions, cancelAction())

	return Reply{Kind: kind, Text: b.String(), Actions: actions, Step: step}
}

func (m *Machine) dateActions() []Action {
	today := timezone.Today(m.loc, m.now())

	actions := make([]Action, 0, DateChoices+1)
	for i := 1; i <= DateChoices; i++ {
		d := domain.FormatDate(today.AddDate(0, 0, i))
		actions = append(actions, valueAction(ActionDate, d, d))
	}
	return append(actions, cancelAction())
}

func timeActions(avail domain.Availability) []Action {
	date := domain.FormatDate(avail.Date)
	actions := make([]Action, 0, len(avail.Times)+1)
	for _, t := range avail.Times {
		actions = append(actions, Action{
			Name:    ActionTime,
			Label:   t.String(),
			Payload: map[string]string{"value": t.String(), "date": date},
		})
	}
	return append(actions, cancelAction())
}

// offered reports whether tod is still free on date.
func offered(avail domain.Availability, date time.Time, tod domain.TimeOfDay) bool {
	if !avail.Found() || !avail.Date.Equal(date) {
		return false
	}
	for _, t := range avail.Times {
		if t == tod {
			return true
		}
	}
	return false
}

func categoryOf(st session.State) (string, bool) {
	switch s := st.(type) {
	case session.CategoryChosen:
		return s.Category, true
	case session.ServiceChosen:
		return s.Category, true
	case session.DateResolved:
		return s.Category, true
	case session.AwaitingName:
		return s.Category, true
	}
	return "", false
}

func isGreeting(text string) bool {
	switch strings.ToLower(strings.Trim(text, " !.")) {
	case "hi", "hello", "hey":
		return true
	}
	return false
}

// HoursText renders the opening hours one weekday per line.
func HoursText(hours domain.WeeklyHours) string {
	var b strings.Builder
	b.WriteString("⏰ **Opening Hours**\n")
	for _, d := range hours.Schedule() {
		if d.Closed {
			fmt.Fprintf(&b, "%s: Closed\n", d.Weekday)
			continue
		}
		fmt.Fprintf(&b, "%s: %s – %s\n", d.Weekday, d.Open, d.Close)
	}
	return b.String()
}
