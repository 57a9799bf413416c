package slots

import (
	"context"
	"log/slog"

	"github.com/adriaway/booking/internal/domain"
	"github.com/adriaway/booking/internal/repository"
)

// Filter excludes candidate slots that collide with existing bookings.
//
// The conflict check compares booking_date to the candidate start for
// exact equality, not interval overlap: two slots whose duration windows
// overlap but start at different minutes never conflict. Kept for
// compatibility with the persisted data other tooling reads.
type Filter struct {
	store  repository.BookingStore
	logger *slog.Logger
}

func NewFilter(store repository.BookingStore, logger *slog.Logger) *Filter {
	return &Filter{
		store:  store,
		logger: logger,
	}
}

// Available reports whether the slot can still be booked. Taxi transfers
// conflict only with taxi bookings on the same route at the same start;
// group and private tours share one physical boat, so any non-taxi
// booking at the same start blocks them regardless of route. A store
// failure counts as unavailable: fail closed, never surface the error
// past this layer.
func (f *Filter) Available(ctx context.Context, slot domain.TimeSlot) bool {
	var qf domain.BookingFilter

	if slot.Type == domain.TourTaxi {
		taxi := domain.TourTaxi
		qf = domain.BookingFilter{
			TourType:    &taxi,
			RouteID:     &slot.RouteID,
			BookingDate: &slot.StartTime,
		}
	} else {
		taxi := domain.TourTaxi
		qf = domain.BookingFilter{
			TourTypeNot: &taxi,
			BookingDate: &slot.StartTime,
		}
	}

	existing, err := f.store.List(ctx, qf)
	if err != nil {
		f.logger.Error("availability check failed, treating slot as unavailable",
			"slot_id", slot.ID, "error", err)
		return false
	}

	return len(existing) == 0
}

// FilterAvailable keeps the slots that pass Available, preserving order.
func (f *Filter) FilterAvailable(ctx context.Context, candidates []domain.TimeSlot) []domain.TimeSlot {
	var out []domain.TimeSlot
	for _, s := range candidates {
		if f.Available(ctx, s) {
			out = append(out, s)
		}
	}
	return out
}
