// Package cache memoizes filtered slot lists keyed by (day, route, tour
// type). Entries expire after a fixed TTL; there is no capacity bound
// because the key space is a handful of routes times three tour types
// times a rolling date window.
package cache

import (
	"context"
	"time"

	"github.com/adriaway/booking/internal/domain"
)

// DefaultTTL matches the widget's interaction rhythm: long enough to
// absorb repeated date/route clicks, short enough that a fresh booking
// shows up on the next natural refresh.
const DefaultTTL = 5 * time.Minute

type SlotCache interface {
	Get(ctx context.Context, date time.Time, routeID string, tourType domain.TourType) ([]domain.TimeSlot, bool)
	Set(ctx context.Context, date time.Time, routeID string, tourType domain.TourType, slots []domain.TimeSlot)
	Clear(ctx context.Context)
}

// Key derives the cache key: calendar day joined with route and tour type.
func Key(date time.Time, routeID string, tourType domain.TourType) string {
	return date.Format("2006-01-02") + "-" + routeID + "-" + string(tourType)
}
