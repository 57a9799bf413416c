package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/adriaway/booking/internal/domain"
	"github.com/google/uuid"
)

const defaultFetchTimeout = 10 * time.Second

// SlotProvider supplies the bookable slots for a (date, route, tour
// type) triple. The query service implements it.
type SlotProvider interface {
	FilteredSlots(ctx context.Context, date time.Time, routeID string, tourType domain.TourType) ([]domain.TimeSlot, error)
}

// fetchParams identifies one slot fetch. The date is kept as a
// formatted day string so the struct is comparable and a reloaded
// equal date compares equal regardless of location pointer identity.
type fetchParams struct {
	day      string
	routeID  string
	tourType domain.TourType
}

func paramsOf(d domain.BookingDraft) fetchParams {
	return fetchParams{
		day:      d.SelectedDate.Format("2006-01-02"),
		routeID:  d.RouteID,
		tourType: d.TourType,
	}
}

func (p fetchParams) complete() bool {
	return p.day != "0001-01-01" && p.routeID != "" && p.tourType.Valid()
}

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	ID       uuid.UUID
	Step     Step
	Draft    domain.BookingDraft
	Slots    []domain.TimeSlot
	Loading  bool
	FetchErr error
}

// Session is one open widget dialog: reducer state plus the slot list
// being loaded for it. Safe for concurrent use.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	state    State
	slots    []domain.TimeSlot
	loading  bool
	fetchErr error

	provider     SlotProvider
	fetchTimeout time.Duration
	logger       *slog.Logger
}

func newSession(lang domain.Language, provider SlotProvider, logger *slog.Logger) *Session {
	return &Session{
		ID:           uuid.New(),
		state:        State{Step: StepTourType, Draft: domain.BookingDraft{Language: lang}},
		provider:     provider,
		fetchTimeout: defaultFetchTimeout,
		logger:       logger,
	}
}

// Apply runs one event through the reducer. When the event leaves the
// draft with a complete (date, route, tour type) triple that differs
// from the one already loaded, a background slot fetch starts; the
// stale slot list is dropped immediately.
func (s *Session) Apply(e Event) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := paramsOf(s.state.Draft)

	next, err := Reduce(s.state, e)
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.state = next

	// Any change to the triple invalidates the loaded slot list; an
	// in-flight fetch for the old triple is discarded on arrival.
	after := paramsOf(s.state.Draft)
	if after != before {
		s.slots = nil
		s.fetchErr = nil
		s.loading = false
		if after.complete() {
			s.loading = true
			go s.fetch(after, s.state.Draft.SelectedDate)
		}
	}

	return s.snapshotLocked(), nil
}

// fetch loads slots for params and installs the result only if the
// session still wants those exact parameters. A selection made while
// the fetch was in flight supersedes it.
func (s *Session) fetch(params fetchParams, date time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), s.fetchTimeout)
	defer cancel()

	slots, err := s.provider.FilteredSlots(ctx, date, params.routeID, params.tourType)

	s.mu.Lock()
	defer s.mu.Unlock()

	if paramsOf(s.state.Draft) != params {
		s.logger.Debug("discarding superseded slot fetch",
			"session_id", s.ID, "route_id", params.routeID, "date", params.day)
		return
	}

	s.loading = false
	if err != nil {
		s.logger.Error("slot fetch failed",
			"session_id", s.ID, "route_id", params.routeID, "date", params.day, "error", err)
		s.slots = nil
		s.fetchErr = err
		return
	}
	s.slots = slots
	s.fetchErr = nil
}

// Snapshot returns the current dialog state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Draft returns a copy of the accumulated booking draft.
func (s *Session) Draft() domain.BookingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Draft
}

// SubmitDraft returns the draft for submission. Only the details step
// may submit: a confirmed session is terminal, and earlier steps may
// still hold a stale but complete draft after backward navigation.
func (s *Session) SubmitDraft() (domain.BookingDraft, error) {
	const op = "wizard.Session.SubmitDraft"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Step != StepDetails {
		return domain.BookingDraft{}, fmt.Errorf("%s:%w: submit at step %d", op, ErrBadTransition, s.state.Step)
	}
	return s.state.Draft, nil
}

// Complete moves a session to the confirmed step after submission.
func (s *Session) Complete() (Snapshot, error) {
	return s.Apply(Event{Kind: EventComplete})
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:       s.ID,
		Step:     s.state.Step,
		Draft:    s.state.Draft,
		Slots:    s.slots,
		Loading:  s.loading,
		FetchErr: s.fetchErr,
	}
}

// Hooks are invoked when a dialog opens or closes; the embedding page
// uses them to toggle the backdrop. Either may be nil.
type Hooks struct {
	DialogOpened func(id uuid.UUID)
	DialogClosed func(id uuid.UUID)
}

// Manager owns the open sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	provider SlotProvider
	hooks    Hooks
	logger   *slog.Logger
}

func NewManager(provider SlotProvider, hooks Hooks, logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		provider: provider,
		hooks:    hooks,
		logger:   logger,
	}
}

// Open creates a session at step one and fires the opened hook.
func (m *Manager) Open(lang domain.Language) *Session {
	s := newSession(lang, m.provider, m.logger)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	if m.hooks.DialogOpened != nil {
		m.hooks.DialogOpened(s.ID)
	}
	return s
}

// Get returns the session with the given ID, if it is still open.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close removes a session and fires the closed hook. Closing an
// unknown session is a no-op.
func (m *Manager) Close(id uuid.UUID) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok && m.hooks.DialogClosed != nil {
		m.hooks.DialogClosed(id)
	}
}
