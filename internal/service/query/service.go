// Package query serves filtered slot lists: cache hit, or generate the
// candidate set, filter it against existing bookings, and memoize.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adriaway/booking/internal/cache"
	"github.com/adriaway/booking/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Availability is what the slot filter provides; an interface so tests
// can count invocations.
type Availability interface {
	FilterAvailable(ctx context.Context, candidates []domain.TimeSlot) []domain.TimeSlot
}

type Service struct {
	generate func(time.Time) []domain.TimeSlot
	filter   Availability
	cache    cache.SlotCache
	sf       singleflight.Group
}

func New(generate func(time.Time) []domain.TimeSlot, filter Availability, slotCache cache.SlotCache) *Service {
	return &Service{
		generate: generate,
		filter:   filter,
		cache:    slotCache,
	}
}

// FilteredSlots returns the bookable slots for (date, route, tour type).
// Concurrent sessions asking for the same key share one generation pass
// via singleflight; the filtered result is cached under the key's TTL.
func (s *Service) FilteredSlots(
	ctx context.Context,
	date time.Time,
	routeID string,
	tourType domain.TourType,
) ([]domain.TimeSlot, error) {
	const op = "service.query.FilteredSlots"

	if !tourType.Valid() {
		return nil, fmt.Errorf("%s: unknown tour type %q", op, tourType)
	}

	if slots, ok := s.cache.Get(ctx, date, routeID, tourType); ok {
		return slots, nil
	}

	key := cache.Key(date, routeID, tourType)

	v, err, _ := s.sf.Do(key, func() (any, error) {
		if slots, ok := s.cache.Get(ctx, date, routeID, tourType); ok {
			return slots, nil
		}

		var matched []domain.TimeSlot
		for _, slot := range s.generate(date) {
			if slot.RouteID == routeID && slot.Type == tourType {
				matched = append(matched, slot)
			}
		}

		available := s.filter.FilterAvailable(ctx, matched)
		s.cache.Set(ctx, date, routeID, tourType, available)

		return available, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	slots, ok := v.([]domain.TimeSlot)
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, errors.New("type assertion failed"))
	}

	return slots, nil
}
