package repository

import (
	"context"

	"github.com/adriaway/booking/internal/domain"
	"github.com/google/uuid"
)

// BookingStore is the narrow contract the core consumes. The availability
// filter only lists by exact tour_type/route_id/booking_date predicates,
// submission only inserts, and the admin dashboard lists by status and
// flips status.
type BookingStore interface {
	List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	Insert(ctx context.Context, b domain.Booking) (domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error
}
