// Package booking implements booking submission: draft validation, slot
// resolution, persistence and the two confirmation emails.
package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adriaway/booking/internal/catalog"
	"github.com/adriaway/booking/internal/domain"
	"github.com/adriaway/booking/internal/notifier"
	redisx "github.com/adriaway/booking/internal/redis"
	"github.com/adriaway/booking/internal/repository"
	redisrepo "github.com/adriaway/booking/internal/repository/redis"
)

const submitTimeout = 10 * time.Second

type Service struct {
	store      repository.BookingStore
	notifier   notifier.Notifier
	generate   func(time.Time) []domain.TimeSlot
	limiter    *redisrepo.SlidingWindowLimiter // nil when Redis is absent
	pubsub     *redisx.BookingsPubSub          // nil when Redis is absent
	adminEmail string
	logger     *slog.Logger
}

func New(
	store repository.BookingStore,
	n notifier.Notifier,
	generate func(time.Time) []domain.TimeSlot,
	limiter *redisrepo.SlidingWindowLimiter,
	pubsub *redisx.BookingsPubSub,
	adminEmail string,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:      store,
		notifier:   n,
		generate:   generate,
		limiter:    limiter,
		pubsub:     pubsub,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// Submit validates the draft, persists the booking and sends the admin
// and customer confirmation emails. Email failures do not roll the
// booking back: the persisted booking is returned together with an
// error wrapping ErrNotificationFailed so the caller can surface a
// partial-success response. rlKey identifies the caller for rate
// limiting (typically the client IP); an empty key skips the limiter.
func (s *Service) Submit(ctx context.Context, draft domain.BookingDraft, rlKey string) (domain.Booking, error) {
	const op = "service.Booking.Submit"

	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	route, err := s.validate(draft)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s:%w", op, err)
	}

	if s.limiter != nil && rlKey != "" {
		allowed, _, retryAfter, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			s.logger.Warn("rate limiter unavailable, allowing request", "error", err)
		} else if !allowed {
			return domain.Booking{}, fmt.Errorf("%s:%w (retry after %s)", op, ErrRateLimited, retryAfter)
		}
	}

	slot, err := s.resolveSlot(draft)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s:%w", op, err)
	}

	booking := domain.Booking{
		TimeSlotID:         slot.ID,
		BookingDate:        slot.StartTime,
		CustomerName:       draft.CustomerName,
		CustomerEmail:      draft.CustomerEmail,
		CustomerPhone:      draft.CustomerPhone,
		NumberOfPassengers: draft.NumberOfPassengers,
		RouteID:            route.ID,
		TourType:           draft.TourType,
		Status:             domain.StatusPending,
	}

	created, err := s.store.Insert(ctx, booking)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s:%w", op, err)
	}

	s.publish(ctx, created)

	if err := s.sendConfirmations(ctx, created, route, draft.Language); err != nil {
		return created, fmt.Errorf("%s:%w: %w", op, ErrNotificationFailed, err)
	}

	return created, nil
}

func (s *Service) validate(draft domain.BookingDraft) (domain.Route, error) {
	if !draft.TourType.Valid() {
		return domain.Route{}, fmt.Errorf("%w: tour type", ErrDraftIncomplete)
	}
	route, ok := catalog.RouteByID(draft.RouteID)
	if !ok {
		return domain.Route{}, fmt.Errorf("%w: route %q", ErrDraftIncomplete, draft.RouteID)
	}
	if draft.SelectedDate.IsZero() {
		return domain.Route{}, fmt.Errorf("%w: date", ErrDraftIncomplete)
	}
	if draft.TimeSlotID == "" {
		return domain.Route{}, fmt.Errorf("%w: time slot", ErrDraftIncomplete)
	}
	if draft.CustomerName == "" || draft.CustomerEmail == "" || draft.CustomerPhone == "" {
		return domain.Route{}, fmt.Errorf("%w: customer details", ErrDraftIncomplete)
	}
	if draft.NumberOfPassengers < 1 || draft.NumberOfPassengers > route.Capacity {
		return domain.Route{}, fmt.Errorf("%w: %d of %d", ErrPassengerCount, draft.NumberOfPassengers, route.Capacity)
	}
	return route, nil
}

// resolveSlot regenerates the day's slots and finds the one the draft
// selected. The slot ID embeds the start time, so the match also pins
// the booking timestamp.
func (s *Service) resolveSlot(draft domain.BookingDraft) (domain.TimeSlot, error) {
	for _, slot := range s.generate(draft.SelectedDate) {
		if slot.ID == draft.TimeSlotID && slot.RouteID == draft.RouteID && slot.Type == draft.TourType {
			return slot, nil
		}
	}
	return domain.TimeSlot{}, fmt.Errorf("%w: %q", ErrSlotNotFound, draft.TimeSlotID)
}

func (s *Service) sendConfirmations(ctx context.Context, b domain.Booking, route domain.Route, lang domain.Language) error {
	var firstErr error

	adminFields := notifier.BookingFields(b, route, domain.LangEN)
	if err := s.notifier.Send(ctx, notifier.TemplateAdmin, s.adminEmail, adminFields); err != nil {
		s.logger.Error("admin notification failed", "booking_id", b.ID, "error", err)
		firstErr = err
	}

	customerFields := notifier.BookingFields(b, route, lang)
	if err := s.notifier.Send(ctx, notifier.TemplateCustomer, b.CustomerEmail, customerFields); err != nil {
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
