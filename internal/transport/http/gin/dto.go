package httpgin

import (
	"time"

	"github.com/adriaway/booking/internal/catalog"
	"github.com/adriaway/booking/internal/domain"
	"github.com/adriaway/booking/internal/wizard"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type WidgetConfigResponse struct {
	ButtonText string `json:"button_text"`
	Language   string `json:"language"`
}

type RouteResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	DurationMinutes int      `json:"duration_minutes"`
	Capacity        int      `json:"capacity"`
	BasePrice       int      `json:"base_price"`
	PrivatePrice    int      `json:"private_price,omitempty"`
	Stops           []string `json:"stops,omitempty"`
}

// PriceQuote reports the computed total for a draft selection.
type PriceQuote struct {
	Total    int    `json:"total"`
	Currency string `json:"currency"`
}

type SlotResponse struct {
	ID                 string  `json:"id"`
	RouteID            string  `json:"route_id"`
	StartTime          string  `json:"start_time"`
	EndTime            string  `json:"end_time"`
	Type               string  `json:"type"`
	AvailableSeats     int     `json:"available_seats"`
	SeasonalMultiplier float64 `json:"seasonal_multiplier"`
}

type EventRequest struct {
	Kind       string `json:"kind" binding:"required"`
	TourType   string `json:"tour_type"`
	RouteID    string `json:"route_id"`
	Date       string `json:"date"`
	SlotID     string `json:"slot_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Passengers int    `json:"passengers"`
}

type SessionResponse struct {
	ID       string         `json:"id"`
	Step     int            `json:"step"`
	Draft    DraftResponse  `json:"draft"`
	Slots    []SlotResponse `json:"slots,omitempty"`
	Loading  bool           `json:"loading"`
	SlotsErr string         `json:"slots_error,omitempty"`
	PriceEUR int            `json:"price_eur,omitempty"`
}

type DraftResponse struct {
	TourType   string `json:"tour_type,omitempty"`
	RouteID    string `json:"route_id,omitempty"`
	Date       string `json:"date,omitempty"`
	SlotID     string `json:"slot_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Passengers int    `json:"passengers,omitempty"`
	Language   string `json:"language"`
}

type CreateBookingRequest struct {
	TourType   string `json:"tour_type" binding:"required"`
	RouteID    string `json:"route_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	SlotID     string `json:"slot_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	Passengers int    `json:"passengers" binding:"required,gt=0"`
	Language   string `json:"language"`
}

type BookingResponse struct {
	ID          string `json:"id"`
	TimeSlotID  string `json:"time_slot_id"`
	BookingDate string `json:"booking_date"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Passengers  int    `json:"passengers"`
	RouteID     string `json:"route_id"`
	TourType    string `json:"tour_type"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	EmailsSent  bool   `json:"emails_sent"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func routeDTO(r domain.Route, lang domain.Language) RouteResponse {
	return RouteResponse{
		ID:              r.ID,
		Name:            r.Name(lang),
		Description:     r.Description(lang),
		DurationMinutes: r.Duration,
		Capacity:        r.Capacity,
		BasePrice:       r.BasePrice,
		PrivatePrice:    r.DiscountedPrivateTourPrice,
		Stops:           r.Stops,
	}
}

func slotDTO(s domain.TimeSlot) SlotResponse {
	return SlotResponse{
		ID:                 s.ID,
		RouteID:            s.RouteID,
		StartTime:          s.StartTime.Format(time.RFC3339),
		EndTime:            s.EndTime.Format(time.RFC3339),
		Type:               string(s.Type),
		AvailableSeats:     s.AvailableSeats,
		SeasonalMultiplier: s.SeasonalMultiplier,
	}
}

func bookingDTO(b domain.Booking, emailsSent bool) BookingResponse {
	return BookingResponse{
		ID:          b.ID.String(),
		TimeSlotID:  b.TimeSlotID,
		BookingDate: b.BookingDate.Format(time.RFC3339),
		Name:        b.CustomerName,
		Email:       b.CustomerEmail,
		Phone:       b.CustomerPhone,
		Passengers:  b.NumberOfPassengers,
		RouteID:     b.RouteID,
		TourType:    string(b.TourType),
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		EmailsSent:  emailsSent,
	}
}

func sessionDTO(snap wizard.Snapshot) SessionResponse {
	resp := SessionResponse{
		ID:      snap.ID.String(),
		Step:    int(snap.Step),
		Draft:   draftDTO(snap.Draft),
		Loading: snap.Loading,
	}
	for _, s := range snap.Slots {
		resp.Slots = append(resp.Slots, slotDTO(s))
	}
	if snap.FetchErr != nil {
		resp.SlotsErr = "failed to load time slots"
	}
	if route, ok := catalog.RouteByID(snap.Draft.RouteID); ok && snap.Draft.TourType.Valid() {
		passengers := snap.Draft.NumberOfPassengers
		if passengers < 1 {
			passengers = 1
		}
		resp.PriceEUR = catalog.Price(route, snap.Draft.TourType, passengers)
	}
	return resp
}

func draftDTO(d domain.BookingDraft) DraftResponse {
	resp := DraftResponse{
		TourType:   string(d.TourType),
		RouteID:    d.RouteID,
		SlotID:     d.TimeSlotID,
		Name:       d.CustomerName,
		Email:      d.CustomerEmail,
		Phone:      d.CustomerPhone,
		Passengers: d.NumberOfPassengers,
		Language:   string(d.Language),
	}
	if !d.SelectedDate.IsZero() {
		resp.Date = d.SelectedDate.Format("2006-01-02")
	}
	return resp
}

func parseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
