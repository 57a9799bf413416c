// Package wizard models the five-step booking dialog as a pure state
// machine: a State, a set of Events, and a Reduce function with no side
// effects. Slot loading lives in Session, on top of the reducer.
package wizard

import (
	"errors"
	"fmt"
	"time"

	"github.com/adriaway/booking/internal/catalog"
	"github.com/adriaway/booking/internal/domain"
)

// Step numbers the dialog screens.
type Step int

const (
	StepTourType  Step = 1 // choose group / private / taxi
	StepRoute     Step = 2 // choose a route for the tour type
	StepDateTime  Step = 3 // pick date and time slot
	StepDetails   Step = 4 // customer name, email, phone, passengers
	StepConfirmed Step = 5 // booking submitted
)

// EventKind identifies a dialog action.
type EventKind string

const (
	EventSelectTourType EventKind = "select_tour_type"
	EventSelectRoute    EventKind = "select_route"
	EventSelectDate     EventKind = "select_date"
	EventSelectSlot     EventKind = "select_slot"
	EventSetCustomer    EventKind = "set_customer"
	EventBack           EventKind = "back"
	EventReset          EventKind = "reset"
	// EventComplete is applied internally after a successful submission.
	EventComplete EventKind = "complete"
)

// Event carries an action and its payload; only the fields the kind
// needs are read.
type Event struct {
	Kind       EventKind
	TourType   domain.TourType
	RouteID    string
	Date       time.Time
	SlotID     string
	Name       string
	Email      string
	Phone      string
	Passengers int
}

// State is a dialog position plus the draft accumulated so far.
type State struct {
	Step  Step
	Draft domain.BookingDraft
}

var (
	// ErrBadTransition means the event is not allowed at the current step.
	ErrBadTransition = errors.New("event not allowed at this step")
	// ErrUnknownEvent means the event kind is not recognized.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrBadPayload means the event payload is invalid for its kind.
	ErrBadPayload = errors.New("invalid event payload")
)

// Reduce applies one event to a state and returns the next state. It
// never mutates its input and performs no I/O.
func Reduce(s State, e Event) (State, error) {
	const op = "wizard.Reduce"

	switch e.Kind {
	case EventReset:
		lang := s.Draft.Language
		return State{Step: StepTourType, Draft: domain.BookingDraft{Language: lang}}, nil

	case EventBack:
		if s.Step <= StepTourType || s.Step >= StepConfirmed {
			return s, fmt.Errorf("%s:%w: back at step %d", op, ErrBadTransition, s.Step)
		}
		// Going back keeps everything already entered; re-selecting on
		// an earlier screen is what clears downstream fields.
		s.Step--
		return s, nil

	case EventSelectTourType:
		if s.Step != StepTourType {
			return s, fmt.Errorf("%s:%w: select_tour_type at step %d", op, ErrBadTransition, s.Step)
		}
		if !e.TourType.Valid() {
			return s, fmt.Errorf("%s:%w: tour type %q", op, ErrBadPayload, e.TourType)
		}
		if e.TourType != s.Draft.TourType {
			// Changing the tour type invalidates the route and slot.
			s.Draft.RouteID = ""
			s.Draft.TimeSlotID = ""
		}
		s.Draft.TourType = e.TourType
		s.Step = StepRoute
		return s, nil

	case EventSelectRoute:
		if s.Step != StepRoute {
			return s, fmt.Errorf("%s:%w: select_route at step %d", op, ErrBadTransition, s.Step)
		}
		if !routeOffered(e.RouteID, s.Draft.TourType) {
			return s, fmt.Errorf("%s:%w: route %q for %s", op, ErrBadPayload, e.RouteID, s.Draft.TourType)
		}
		if e.RouteID != s.Draft.RouteID {
			s.Draft.TimeSlotID = ""
		}
		s.Draft.RouteID = e.RouteID
		s.Step = StepDateTime
		return s, nil

	case EventSelectDate:
		if s.Step != StepDateTime {
			return s, fmt.Errorf("%s:%w: select_date at step %d", op, ErrBadTransition, s.Step)
		}
		if e.Date.IsZero() {
			return s, fmt.Errorf("%s:%w: zero date", op, ErrBadPayload)
		}
		s.Draft.SelectedDate = e.Date
		// A new date always discards the slot: the old slot's ID embeds
		// a start time on the old date.
		s.Draft.TimeSlotID = ""
		return s, nil

	case EventSelectSlot:
		if s.Step != StepDateTime {
			return s, fmt.Errorf("%s:%w: select_slot at step %d", op, ErrBadTransition, s.Step)
		}
		if s.Draft.SelectedDate.IsZero() {
			return s, fmt.Errorf("%s:%w: slot before date", op, ErrBadTransition)
		}
		if e.SlotID == "" {
			return s, fmt.Errorf("%s:%w: empty slot id", op, ErrBadPayload)
		}
		s.Draft.TimeSlotID = e.SlotID
		s.Step = StepDetails
		return s, nil

	case EventSetCustomer:
		if s.Step != StepDetails {
			return s, fmt.Errorf("%s:%w: set_customer at step %d", op, ErrBadTransition, s.Step)
		}
		if e.Name == "" || e.Email == "" || e.Phone == "" || e.Passengers < 1 {
			return s, fmt.Errorf("%s:%w: missing customer details", op, ErrBadPayload)
		}
		s.Draft.CustomerName = e.Name
		s.Draft.CustomerEmail = e.Email
		s.Draft.CustomerPhone = e.Phone
		s.Draft.NumberOfPassengers = e.Passengers
		return s, nil

	case EventComplete:
		if s.Step != StepDetails {
			return s, fmt.Errorf("%s:%w: complete at step %d", op, ErrBadTransition, s.Step)
		}
		s.Step = StepConfirmed
		return s, nil

	default:
		return s, fmt.Errorf("%s:%w: %q", op, ErrUnknownEvent, e.Kind)
	}
}

func routeOffered(routeID string, t domain.TourType) bool {
	for _, r := range catalog.RoutesFor(t) {
		if r.ID == routeID {
			return true
		}
	}
	return false
}
