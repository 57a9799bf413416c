package wizard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/adriaway/booking/internal/domain"
	"github.com/google/uuid"
)

type fetchCall struct {
	day     string
	routeID string
	release chan []domain.TimeSlot
}

// blockingProvider parks every FilteredSlots call until the test releases
// it, so in-flight fetches can be interleaved deterministically.
type blockingProvider struct {
	mu    sync.Mutex
	calls []*fetchCall
	seen  chan *fetchCall
}

func newBlockingProvider() *blockingProvider {
	return &blockingProvider{seen: make(chan *fetchCall, 16)}
}

func (p *blockingProvider) FilteredSlots(_ context.Context, date time.Time, routeID string, _ domain.TourType) ([]domain.TimeSlot, error) {
	c := &fetchCall{
		day:     date.Format("2006-01-02"),
		routeID: routeID,
		release: make(chan []domain.TimeSlot),
	}
	p.mu.Lock()
	p.calls = append(p.calls, c)
	p.mu.Unlock()
	p.seen <- c

	slots, ok := <-c.release
	if !ok {
		return nil, errors.New("provider failure")
	}
	return slots, nil
}

func (p *blockingProvider) next(t *testing.T) *fetchCall {
	t.Helper()
	select {
	case c := <-p.seen:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a slot fetch")
		return nil
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustApply(t *testing.T, s *Session, events ...Event) Snapshot {
	t.Helper()
	var snap Snapshot
	for _, e := range events {
		var err error
		snap, err = s.Apply(e)
		if err != nil {
			t.Fatalf("Apply(%s): %v", e.Kind, err)
		}
	}
	return snap
}

func waitFor(t *testing.T, s *Session, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := s.Snapshot()
		if cond(snap) {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached")
	return Snapshot{}
}

func openSession(provider SlotProvider) *Session {
	m := NewManager(provider, Hooks{}, discard())
	return m.Open(domain.LangEN)
}

func TestSession_FetchStartsWhenTripleComplete(t *testing.T) {
	p := newBlockingProvider()
	s := openSession(p)

	snap := mustApply(t, s,
		Event{Kind: EventSelectTourType, TourType: domain.TourTaxi},
		Event{Kind: EventSelectRoute, RouteID: "split-bol-transfer"},
	)
	if snap.Loading {
		t.Fatal("fetch should not start before a date is chosen")
	}

	snap = mustApply(t, s, Event{Kind: EventSelectDate, Date: time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)})
	if !snap.Loading {
		t.Fatal("fetch should start once date, route and tour type are set")
	}

	call := p.next(t)
	if call.day != "2026-07-10" || call.routeID != "split-bol-transfer" {
		t.Fatalf("fetch for %s/%s, want 2026-07-10/split-bol-transfer", call.day, call.routeID)
	}

	call.release <- []domain.TimeSlot{{ID: "slot-a"}}

	snap = waitFor(t, s, func(sn Snapshot) bool { return !sn.Loading })
	if len(snap.Slots) != 1 || snap.Slots[0].ID != "slot-a" {
		t.Fatalf("slots = %v", snap.Slots)
	}
}

func TestSession_SupersededFetchDiscarded(t *testing.T) {
	p := newBlockingProvider()
	s := openSession(p)

	mustApply(t, s,
		Event{Kind: EventSelectTourType, TourType: domain.TourTaxi},
		Event{Kind: EventSelectRoute, RouteID: "split-bol-transfer"},
		Event{Kind: EventSelectDate, Date: time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)},
	)
	first := p.next(t)

	// Change the date while the first fetch is still in flight.
	mustApply(t, s, Event{Kind: EventSelectDate, Date: time.Date(2026, time.July, 11, 0, 0, 0, 0, time.UTC)})
	second := p.next(t)

	// The first fetch completes late; its result must not land.
	first.release <- []domain.TimeSlot{{ID: "stale"}}
	second.release <- []domain.TimeSlot{{ID: "fresh"}}

	snap := waitFor(t, s, func(sn Snapshot) bool { return !sn.Loading && len(sn.Slots) > 0 })
	if snap.Slots[0].ID != "fresh" {
		t.Fatalf("slots = %v, want the fresh result only", snap.Slots)
	}
}

func TestSession_FetchErrorSurfacesInSnapshot(t *testing.T) {
	p := newBlockingProvider()
	s := openSession(p)

	mustApply(t, s,
		Event{Kind: EventSelectTourType, TourType: domain.TourTaxi},
		Event{Kind: EventSelectRoute, RouteID: "split-bol-transfer"},
		Event{Kind: EventSelectDate, Date: time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)},
	)
	close(p.next(t).release) // provider fails

	snap := waitFor(t, s, func(sn Snapshot) bool { return !sn.Loading })
	if snap.FetchErr == nil {
		t.Fatal("expected fetch error in snapshot")
	}
	if len(snap.Slots) != 0 {
		t.Fatalf("slots = %v, want none", snap.Slots)
	}
}

func TestSession_NoRefetchForSameTriple(t *testing.T) {
	p := newBlockingProvider()
	s := openSession(p)

	date := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)
	mustApply(t, s,
		Event{Kind: EventSelectTourType, TourType: domain.TourTaxi},
		Event{Kind: EventSelectRoute, RouteID: "split-bol-transfer"},
		Event{Kind: EventSelectDate, Date: date},
	)
	p.next(t).release <- []domain.TimeSlot{{ID: "slot-a"}}
	waitFor(t, s, func(sn Snapshot) bool { return !sn.Loading })

	// Re-selecting the identical date changes nothing worth refetching.
	mustApply(t, s, Event{Kind: EventSelectDate, Date: date})

	select {
	case <-p.seen:
		t.Fatal("unexpected refetch for an unchanged triple")
	case <-time.After(50 * time.Millisecond):
	}
}

func toDetails(t *testing.T, s *Session) {
	t.Helper()
	mustApply(t, s,
		Event{Kind: EventSelectTourType, TourType: domain.TourTaxi},
		Event{Kind: EventSelectRoute, RouteID: "split-bol-transfer"},
		Event{Kind: EventSelectDate, Date: time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)},
		Event{Kind: EventSelectSlot, SlotID: "split-bol-transfer-2026-07-10T08:00:00Z"},
		Event{Kind: EventSetCustomer, Name: "Ana", Email: "ana@example.com", Phone: "+385", Passengers: 2},
	)
}

func TestSession_SubmitDraftOnlyAtDetailsStep(t *testing.T) {
	p := newBlockingProvider()
	s := openSession(p)

	// Earlier steps refuse even though fields may already be filled in.
	if _, err := s.SubmitDraft(); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("step 1 submit: err = %v, want ErrBadTransition", err)
	}

	toDetails(t, s)
	draft, err := s.SubmitDraft()
	if err != nil {
		t.Fatalf("details step submit: %v", err)
	}
	if draft.CustomerName != "Ana" || draft.TimeSlotID == "" {
		t.Fatalf("draft = %+v", draft)
	}

	// Backward navigation keeps the complete draft but closes the
	// submission window until the customer reaches details again.
	mustApply(t, s, Event{Kind: EventBack})
	if _, err := s.SubmitDraft(); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("after back: err = %v, want ErrBadTransition", err)
	}
}

func TestSession_SubmitDraftRefusedWhenConfirmed(t *testing.T) {
	p := newBlockingProvider()
	s := openSession(p)

	toDetails(t, s)
	if _, err := s.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if _, err := s.SubmitDraft(); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("confirmed session submit: err = %v, want ErrBadTransition", err)
	}
}

func TestSession_ResetClearsFetchState(t *testing.T) {
	p := newBlockingProvider()
	s := openSession(p)

	mustApply(t, s,
		Event{Kind: EventSelectTourType, TourType: domain.TourTaxi},
		Event{Kind: EventSelectRoute, RouteID: "split-bol-transfer"},
		Event{Kind: EventSelectDate, Date: time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)},
	)
	call := p.next(t)

	// Reset while the fetch is still in flight: the step-1 snapshot must
	// not report loading or carry the old selection's slots.
	snap := mustApply(t, s, Event{Kind: EventReset})
	if snap.Loading {
		t.Error("loading still set after reset")
	}
	if len(snap.Slots) != 0 || snap.FetchErr != nil {
		t.Errorf("fetch state survived reset: %+v", snap)
	}

	// The stale fetch finishing late must not land either.
	call.release <- []domain.TimeSlot{{ID: "stale"}}
	time.Sleep(20 * time.Millisecond)

	snap = s.Snapshot()
	if snap.Loading || len(snap.Slots) != 0 {
		t.Fatalf("stale fetch landed after reset: %+v", snap)
	}
}

func TestManager_Hooks(t *testing.T) {
	var opened, closed []uuid.UUID
	m := NewManager(newBlockingProvider(), Hooks{
		DialogOpened: func(id uuid.UUID) { opened = append(opened, id) },
		DialogClosed: func(id uuid.UUID) { closed = append(closed, id) },
	}, discard())

	s := m.Open(domain.LangHR)
	if len(opened) != 1 || opened[0] != s.ID {
		t.Fatalf("opened hooks = %v", opened)
	}
	if s.Draft().Language != domain.LangHR {
		t.Errorf("language = %s, want hr", s.Draft().Language)
	}

	if _, ok := m.Get(s.ID); !ok {
		t.Fatal("session not retrievable")
	}

	m.Close(s.ID)
	if len(closed) != 1 || closed[0] != s.ID {
		t.Fatalf("closed hooks = %v", closed)
	}
	if _, ok := m.Get(s.ID); ok {
		t.Fatal("session still retrievable after close")
	}

	// Closing twice fires the hook once.
	m.Close(s.ID)
	if len(closed) != 1 {
		t.Fatalf("closed hooks after double close = %v", closed)
	}
}
