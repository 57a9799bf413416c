package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/adriaway/booking/internal/domain"
	"github.com/adriaway/booking/internal/repository"
	"github.com/google/uuid"
)

type BookingRepo struct {
	db DB
}

const bookingColumns = `id, time_slot_id, booking_date, customer_name, customer_email,
		customer_phone, number_of_passengers, route_id, tour_type, status, created_at`

// List returns bookings matching the filter. Every predicate is an exact
// match; the availability filter depends on booking_date equality rather
// than overlap.
func (r *BookingRepo) List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	const op = "postgres.BookingRepo.List"

	var (
		where []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.TourType != nil {
		where = append(where, "tour_type = "+arg(string(*f.TourType)))
	}
	if f.TourTypeNot != nil {
		where = append(where, "tour_type <> "+arg(string(*f.TourTypeNot)))
	}
	if f.RouteID != nil {
		where = append(where, "route_id = "+arg(*f.RouteID))
	}
	if f.BookingDate != nil {
		where = append(where, "booking_date = "+arg(*f.BookingDate))
	}
	if f.Status != nil {
		where = append(where, "status = "+arg(string(*f.Status)))
	}

	sql := "SELECT " + bookingColumns + " FROM bookings"
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	if f.OrderByDateAsc {
		sql += " ORDER BY booking_date ASC"
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.TimeSlotID, &b.BookingDate, &b.CustomerName, &b.CustomerEmail,
			&b.CustomerPhone, &b.NumberOfPassengers, &b.RouteID, &b.TourType, &b.Status, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return out, nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const op = "postgres.BookingRepo.GetByID"

	var b domain.Booking
	err := r.db.QueryRow(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = $1", id,
	).Scan(
		&b.ID, &b.TimeSlotID, &b.BookingDate, &b.CustomerName, &b.CustomerEmail,
		&b.CustomerPhone, &b.NumberOfPassengers, &b.RouteID, &b.TourType, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return b, nil
}

// Insert persists a new booking and returns it with the generated id and
// created_at filled in. Status defaults to pending when unset.
func (r *BookingRepo) Insert(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const op = "postgres.BookingRepo.Insert"

	if b.Status == "" {
		b.Status = domain.StatusPending
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO bookings
			(time_slot_id, booking_date, customer_name, customer_email,
			 customer_phone, number_of_passengers, route_id, tour_type, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		b.TimeSlotID, b.BookingDate, b.CustomerName, b.CustomerEmail,
		b.CustomerPhone, b.NumberOfPassengers, b.RouteID, string(b.TourType), string(b.Status),
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return b, nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	const op = "postgres.BookingRepo.UpdateStatus"

	tag, err := r.db.Exec(ctx,
		"UPDATE bookings SET status = $2 WHERE id = $1", id, string(status))
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}
