package wizard

import (
	"errors"
	"testing"
	"time"

	"github.com/adriaway/booking/internal/domain"
)

func apply(t *testing.T, s State, events ...Event) State {
	t.Helper()
	for _, e := range events {
		next, err := Reduce(s, e)
		if err != nil {
			t.Fatalf("Reduce(%s): %v", e.Kind, err)
		}
		s = next
	}
	return s
}

func initial() State {
	return State{Step: StepTourType, Draft: domain.BookingDraft{Language: domain.LangEN}}
}

func july(d int) time.Time {
	return time.Date(2026, time.July, d, 0, 0, 0, 0, time.UTC)
}

func TestReduce_HappyPath(t *testing.T) {
	s := apply(t, initial(),
		Event{Kind: EventSelectTourType, TourType: domain.TourGroup},
		Event{Kind: EventSelectRoute, RouteID: "blue-lagoon-trogir"},
		Event{Kind: EventSelectDate, Date: july(10)},
		Event{Kind: EventSelectSlot, SlotID: "blue-lagoon-morning-group-2026-07-10T09:00:00Z"},
		Event{Kind: EventSetCustomer, Name: "Ana", Email: "ana@example.com", Phone: "+385", Passengers: 3},
		Event{Kind: EventComplete},
	)

	if s.Step != StepConfirmed {
		t.Fatalf("step = %d, want %d", s.Step, StepConfirmed)
	}
	if s.Draft.CustomerName != "Ana" || s.Draft.NumberOfPassengers != 3 {
		t.Errorf("draft = %+v", s.Draft)
	}
}

func TestReduce_StepGating(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
	}{
		{"route before tour type", initial(), Event{Kind: EventSelectRoute, RouteID: "blue-lagoon-trogir"}},
		{"date before route", initial(), Event{Kind: EventSelectDate, Date: july(10)}},
		{"customer before slot", initial(), Event{Kind: EventSetCustomer, Name: "A", Email: "a@b.c", Phone: "1", Passengers: 1}},
		{"back at first step", initial(), Event{Kind: EventBack}},
		{"complete before details", initial(), Event{Kind: EventComplete}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Reduce(tt.state, tt.event); !errors.Is(err, ErrBadTransition) {
				t.Fatalf("err = %v, want ErrBadTransition", err)
			}
		})
	}
}

func TestReduce_SlotRequiresDate(t *testing.T) {
	s := apply(t, initial(),
		Event{Kind: EventSelectTourType, TourType: domain.TourGroup},
		Event{Kind: EventSelectRoute, RouteID: "blue-lagoon-trogir"},
	)

	if _, err := Reduce(s, Event{Kind: EventSelectSlot, SlotID: "x"}); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("err = %v, want ErrBadTransition", err)
	}
}

func TestReduce_RouteMustMatchTourType(t *testing.T) {
	s := apply(t, initial(), Event{Kind: EventSelectTourType, TourType: domain.TourGroup})

	// A transfer route is not bookable as a group tour.
	if _, err := Reduce(s, Event{Kind: EventSelectRoute, RouteID: "split-bol-transfer"}); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("err = %v, want ErrBadPayload", err)
	}
}

func TestReduce_DateChangeClearsSlot(t *testing.T) {
	s := apply(t, initial(),
		Event{Kind: EventSelectTourType, TourType: domain.TourGroup},
		Event{Kind: EventSelectRoute, RouteID: "blue-lagoon-trogir"},
		Event{Kind: EventSelectDate, Date: july(10)},
		Event{Kind: EventSelectSlot, SlotID: "blue-lagoon-morning-group-2026-07-10T09:00:00Z"},
	)
	if s.Step != StepDetails {
		t.Fatalf("step = %d, want %d", s.Step, StepDetails)
	}

	// Go back to the date screen and pick a new date.
	s = apply(t, s,
		Event{Kind: EventBack},
		Event{Kind: EventSelectDate, Date: july(11)},
	)

	if s.Draft.TimeSlotID != "" {
		t.Errorf("slot = %q, want cleared after date change", s.Draft.TimeSlotID)
	}
	if s.Step != StepDateTime {
		t.Errorf("step = %d, want %d", s.Step, StepDateTime)
	}
}

func TestReduce_BackKeepsEnteredFields(t *testing.T) {
	s := apply(t, initial(),
		Event{Kind: EventSelectTourType, TourType: domain.TourGroup},
		Event{Kind: EventSelectRoute, RouteID: "blue-lagoon-trogir"},
		Event{Kind: EventSelectDate, Date: july(10)},
		Event{Kind: EventSelectSlot, SlotID: "blue-lagoon-morning-group-2026-07-10T09:00:00Z"},
		Event{Kind: EventBack},
		Event{Kind: EventBack},
	)

	if s.Step != StepRoute {
		t.Fatalf("step = %d, want %d", s.Step, StepRoute)
	}
	if s.Draft.RouteID != "blue-lagoon-trogir" || s.Draft.TimeSlotID == "" {
		t.Errorf("back cleared fields: %+v", s.Draft)
	}
}

func TestReduce_TourTypeChangeClearsRouteAndSlot(t *testing.T) {
	s := apply(t, initial(),
		Event{Kind: EventSelectTourType, TourType: domain.TourGroup},
		Event{Kind: EventSelectRoute, RouteID: "blue-lagoon-trogir"},
		Event{Kind: EventSelectDate, Date: july(10)},
		Event{Kind: EventSelectSlot, SlotID: "blue-lagoon-morning-group-2026-07-10T09:00:00Z"},
		Event{Kind: EventBack},
		Event{Kind: EventBack},
		Event{Kind: EventBack},
		Event{Kind: EventSelectTourType, TourType: domain.TourTaxi},
	)

	if s.Draft.RouteID != "" || s.Draft.TimeSlotID != "" {
		t.Errorf("route/slot not cleared on tour type change: %+v", s.Draft)
	}
	if s.Draft.SelectedDate.IsZero() {
		t.Error("date should survive a tour type change")
	}
}

func TestReduce_ResetZeroesDraftKeepsLanguage(t *testing.T) {
	s := apply(t, initial(),
		Event{Kind: EventSelectTourType, TourType: domain.TourPrivate},
		Event{Kind: EventSelectRoute, RouteID: "hvar-blue-lagoon"},
		Event{Kind: EventReset},
	)

	if s.Step != StepTourType {
		t.Fatalf("step = %d, want %d", s.Step, StepTourType)
	}
	want := domain.BookingDraft{Language: domain.LangEN}
	if s.Draft.TourType != want.TourType || s.Draft.RouteID != "" || s.Draft.Language != domain.LangEN {
		t.Errorf("draft = %+v, want zeroed with language kept", s.Draft)
	}
}

func TestReduce_UnknownEvent(t *testing.T) {
	if _, err := Reduce(initial(), Event{Kind: "teleport"}); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("err = %v, want ErrUnknownEvent", err)
	}
}

func TestReduce_InvalidPayloads(t *testing.T) {
	s := initial()

	if _, err := Reduce(s, Event{Kind: EventSelectTourType, TourType: "cruise"}); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("err = %v, want ErrBadPayload", err)
	}

	s = apply(t, s,
		Event{Kind: EventSelectTourType, TourType: domain.TourGroup},
		Event{Kind: EventSelectRoute, RouteID: "blue-lagoon-trogir"},
	)
	if _, err := Reduce(s, Event{Kind: EventSelectDate}); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("zero date: err = %v, want ErrBadPayload", err)
	}

	s = apply(t, s,
		Event{Kind: EventSelectDate, Date: july(10)},
		Event{Kind: EventSelectSlot, SlotID: "blue-lagoon-morning-group-2026-07-10T09:00:00Z"},
	)
	if _, err := Reduce(s, Event{Kind: EventSetCustomer, Name: "Ana", Email: "", Phone: "1", Passengers: 2}); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("missing email: err = %v, want ErrBadPayload", err)
	}
}
