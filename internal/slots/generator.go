// Package slots generates the candidate set of bookable time windows for
// a calendar date and filters it against existing bookings.
package slots

import (
	"time"

	"github.com/adriaway/booking/internal/catalog"
	"github.com/adriaway/booking/internal/domain"
)

// Private charters are discounted during the summer months; group tours
// and taxi transfers keep a flat multiplier year-round.
const highSeasonMultiplier = 0.8

const (
	taxiFirstHour = 6
	taxiLastHour  = 22
)

// HighSeason reports whether the date falls in the discount window,
// June through September inclusive at month granularity.
func HighSeason(date time.Time) bool {
	m := date.Month()
	return m >= time.June && m <= time.September
}

// Generate produces every candidate slot for the date: one per template,
// then taxi transfer slots for every transfer route at each full hour
// from 06:00 to 22:00. Pure in date plus the static catalog; no
// wall-clock dependency.
func Generate(date time.Time) []domain.TimeSlot {
	multiplier := 1.0
	if HighSeason(date) {
		multiplier = highSeasonMultiplier
	}

	var out []domain.TimeSlot

	for _, tpl := range catalog.Templates() {
		m := 1.0
		if tpl.Type == domain.TourPrivate {
			m = multiplier
		}
		out = append(out, slotAt(tpl.ID, tpl.RouteID, date, tpl.StartHour, tpl.StartMinute, tpl.Duration, tpl.Type, tpl.Seats, m))
	}

	transfers := catalog.TransferRoutes()
	for hour := taxiFirstHour; hour <= taxiLastHour; hour++ {
		for _, r := range transfers {
			out = append(out, slotAt(r.ID, r.ID, date, hour, 0, r.Duration, domain.TourTaxi, r.Capacity, 1.0))
		}
	}

	return out
}

func slotAt(id, routeID string, date time.Time, hour, minute, duration int, tourType domain.TourType, seats int, multiplier float64) domain.TimeSlot {
	start := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
	end := start.Add(time.Duration(duration) * time.Minute)

	return domain.TimeSlot{
		ID:                 id + "-" + start.Format(time.RFC3339),
		RouteID:            routeID,
		StartTime:          start,
		EndTime:            end,
		Type:               tourType,
		AvailableSeats:     seats,
		SeasonalMultiplier: multiplier,
	}
}
