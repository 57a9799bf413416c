// Package admin implements the dashboard operations: listing bookings,
// changing their status and resending confirmation emails.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/adriaway/booking/internal/catalog"
	"github.com/adriaway/booking/internal/domain"
	"github.com/adriaway/booking/internal/notifier"
	redisx "github.com/adriaway/booking/internal/redis"
	"github.com/adriaway/booking/internal/repository"
	"github.com/google/uuid"
)

type Service struct {
	store      repository.BookingStore
	notifier   notifier.Notifier
	pubsub     *redisx.BookingsPubSub // nil when Redis is absent
	adminEmail string
	logger     *slog.Logger
}

func New(
	store repository.BookingStore,
	n notifier.Notifier,
	pubsub *redisx.BookingsPubSub,
	adminEmail string,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:      store,
		notifier:   n,
		pubsub:     pubsub,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// ListBookings returns all bookings ordered by booking date ascending,
// optionally narrowed to a single status.
func (s *Service) ListBookings(ctx context.Context, status *domain.BookingStatus) ([]domain.Booking, error) {
	const op = "service.Admin.ListBookings"

	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%s:%w: %q", op, ErrBadStatus, *status)
	}

	bookings, err := s.store.List(ctx, domain.BookingFilter{
		Status:         status,
		OrderByDateAsc: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return bookings, nil
}

// UpdateStatus sets the booking's status and notifies both the admin
// inbox and the customer of the change. The status change survives an
// email failure; the returned error then wraps ErrNotificationFailed.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	const op = "service.Admin.UpdateStatus"

	if !status.Valid() {
		return domain.Booking{}, fmt.Errorf("%s:%w: %q", op, ErrBadStatus, status)
	}

	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Booking{}, fmt.Errorf("%s:%w", op, ErrBookingNotFound)
		}
		return domain.Booking{}, fmt.Errorf("%s:%w", op, err)
	}

	booking, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s:%w", op, err)
	}

	s.publish(ctx, booking)

	if err := s.sendBoth(ctx, booking); err != nil {
		return booking, fmt.Errorf("%s:%w: %w", op, ErrNotificationFailed, err)
	}

	return booking, nil
}

// ResendEmails re-sends the admin and customer emails for an existing
// booking without changing it.
func (s *Service) ResendEmails(ctx context.Context, id uuid.UUID) error {
	const op = "service.Admin.ResendEmails"

	booking, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrBookingNotFound)
		}
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := s.sendBoth(ctx, booking); err != nil {
		return fmt.Errorf("%s:%w: %w", op, ErrNotificationFailed, err)
	}

	return nil
}

func (s *Service) sendBoth(ctx context.Context, b domain.Booking) error {
	route, ok := catalog.RouteByID(b.RouteID)
	if !ok {
		return fmt.Errorf("unknown route %q", b.RouteID)
	}

	var firstErr error

	if err := s.notifier.Send(ctx, notifier.TemplateAdmin, s.adminEmail, notifier.BookingFields(b, route, domain.LangEN)); err != nil {
		s.logger.Error("admin notification failed", "booking_id", b.ID, "error", err)
		firstErr = err
	}

	// Customer language is not stored per booking; the widget is
	// deployed per locale, so the configured default applies.
	if err := s.notifier.Send(ctx, notifier.TemplateCustomer, b.CustomerEmail, notifier.BookingFields(b, route, domain.LangEN)); err != nil {
		s.logger.Error("customer notification failed", "booking_id", b.ID, "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (s *Service) publish(ctx context.Context, b domain.Booking) {
	if s.pubsub == nil {
		return
	}
	if err := s.pubsub.PublishBookingChanged(ctx, b.ID, string(b.Status)); err != nil {
		s.logger.Warn("publish booking change failed", "booking_id", b.ID, "error", err)
	}
}
