package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/adriaway/booking/internal/domain"
	"github.com/adriaway/booking/internal/notifier"
	"github.com/adriaway/booking/internal/repository"
	"github.com/google/uuid"
)

type memStore struct {
	bookings map[uuid.UUID]domain.Booking
}

func newMemStore(bookings ...domain.Booking) *memStore {
	s := &memStore{bookings: make(map[uuid.UUID]domain.Booking)}
	for _, b := range bookings {
		s.bookings[b.ID] = b
	}
	return s
}

func (s *memStore) List(_ context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range s.bookings {
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		out = append(out, b)
	}
	if f.OrderByDateAsc {
		sort.Slice(out, func(i, j int) bool {
			return out[i].BookingDate.Before(out[j].BookingDate)
		})
	}
	return out, nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (domain.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, repository.ErrNotFound
	}
	return b, nil
}

func (s *memStore) Insert(_ context.Context, b domain.Booking) (domain.Booking, error) {
	b.ID = uuid.New()
	s.bookings[b.ID] = b
	return b, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.BookingStatus) error {
	b, ok := s.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	s.bookings[id] = b
	return nil
}

type fakeNotifier struct {
	sent []string // "<kind>:<recipient>"
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, kind notifier.TemplateKind, recipient string, _ notifier.Fields) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, string(kind)+":"+recipient)
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleBooking(status domain.BookingStatus, date time.Time) domain.Booking {
	return domain.Booking{
		ID:                 uuid.New(),
		TimeSlotID:         "blue-lagoon-morning-group-" + date.Format(time.RFC3339),
		BookingDate:        date,
		CustomerName:       "Marko Horvat",
		CustomerEmail:      "marko@example.com",
		CustomerPhone:      "+385921234567",
		NumberOfPassengers: 2,
		RouteID:            "blue-lagoon-trogir",
		TourType:           domain.TourGroup,
		Status:             status,
	}
}

func TestListBookings_OrderedByDate(t *testing.T) {
	early := sampleBooking(domain.StatusPending, time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC))
	late := sampleBooking(domain.StatusConfirmed, time.Date(2026, time.July, 12, 9, 0, 0, 0, time.UTC))
	svc := New(newMemStore(late, early), &fakeNotifier{}, nil, "admin@example.com", discard())

	got, err := svc.ListBookings(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d bookings, want 2", len(got))
	}
	if !got[0].BookingDate.Before(got[1].BookingDate) {
		t.Error("bookings not ordered by date ascending")
	}
}

func TestListBookings_StatusFilter(t *testing.T) {
	pending := sampleBooking(domain.StatusPending, time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC))
	confirmed := sampleBooking(domain.StatusConfirmed, time.Date(2026, time.July, 11, 9, 0, 0, 0, time.UTC))
	svc := New(newMemStore(pending, confirmed), &fakeNotifier{}, nil, "admin@example.com", discard())

	status := domain.StatusConfirmed
	got, err := svc.ListBookings(context.Background(), &status)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != confirmed.ID {
		t.Fatalf("got %v, want only the confirmed booking", got)
	}

	bad := domain.BookingStatus("archived")
	if _, err := svc.ListBookings(context.Background(), &bad); !errors.Is(err, ErrBadStatus) {
		t.Fatalf("err = %v, want ErrBadStatus", err)
	}
}

func TestUpdateStatus_PersistsAndResends(t *testing.T) {
	b := sampleBooking(domain.StatusPending, time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC))
	store := newMemStore(b)
	n := &fakeNotifier{}
	svc := New(store, n, nil, "admin@example.com", discard())

	updated, err := svc.UpdateStatus(context.Background(), b.ID, domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", updated.Status)
	}
	if len(n.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(n.sent))
	}
}

func TestUpdateStatus_UnknownBooking(t *testing.T) {
	svc := New(newMemStore(), &fakeNotifier{}, nil, "admin@example.com", discard())

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), domain.StatusCancelled)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("err = %v, want ErrBookingNotFound", err)
	}
}

func TestUpdateStatus_BadStatusRejectedBeforeStore(t *testing.T) {
	b := sampleBooking(domain.StatusPending, time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC))
	store := newMemStore(b)
	svc := New(store, &fakeNotifier{}, nil, "admin@example.com", discard())

	if _, err := svc.UpdateStatus(context.Background(), b.ID, "archived"); !errors.Is(err, ErrBadStatus) {
		t.Fatalf("err = %v, want ErrBadStatus", err)
	}
	if store.bookings[b.ID].Status != domain.StatusPending {
		t.Error("status changed despite invalid input")
	}
}

func TestUpdateStatus_EmailFailureKeepsChange(t *testing.T) {
	b := sampleBooking(domain.StatusPending, time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC))
	store := newMemStore(b)
	n := &fakeNotifier{err: errors.New("sendgrid 500")}
	svc := New(store, n, nil, "admin@example.com", discard())

	updated, err := svc.UpdateStatus(context.Background(), b.ID, domain.StatusConfirmed)
	if !errors.Is(err, ErrNotificationFailed) {
		t.Fatalf("err = %v, want ErrNotificationFailed", err)
	}
	if updated.Status != domain.StatusConfirmed {
		t.Error("updated booking not returned")
	}
	if store.bookings[b.ID].Status != domain.StatusConfirmed {
		t.Error("status change rolled back on email failure")
	}
}

func TestResendEmails(t *testing.T) {
	b := sampleBooking(domain.StatusConfirmed, time.Date(2026, time.July, 10, 9, 0, 0, 0, time.UTC))
	n := &fakeNotifier{}
	svc := New(newMemStore(b), n, nil, "admin@example.com", discard())

	if err := svc.ResendEmails(context.Background(), b.ID); err != nil {
		t.Fatalf("ResendEmails: %v", err)
	}
	if len(n.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(n.sent))
	}

	if err := svc.ResendEmails(context.Background(), uuid.New()); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("err = %v, want ErrBookingNotFound", err)
	}
}
