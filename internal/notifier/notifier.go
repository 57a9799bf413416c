// Package notifier sends the transactional booking emails: one
// operator-facing summary and one customer-facing confirmation.
package notifier

import (
	"context"
	"fmt"

	"github.com/adriaway/booking/internal/catalog"
	"github.com/adriaway/booking/internal/domain"
)

type TemplateKind string

const (
	TemplateAdmin    TemplateKind = "admin"
	TemplateCustomer TemplateKind = "customer"
)

// Fields carries everything a template renders. Dates and prices arrive
// pre-formatted so templates stay dumb.
type Fields struct {
	BookingID       string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	BookingDate     string
	SlotLabel       string
	RouteName       string
	TourType        string
	Passengers      int
	Price           string
	DurationMinutes int
	Stops           []string
	Status          string
	Language        domain.Language
}

type Notifier interface {
	Send(ctx context.Context, kind TemplateKind, recipient string, f Fields) error
}

// BookingFields assembles template fields from a persisted booking and
// its route. The route name is localized to the customer's language; the
// admin template always renders English labels on top of the same data.
func BookingFields(b domain.Booking, r domain.Route, lang domain.Language) Fields {
	return Fields{
		BookingID:       b.ID.String(),
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		CustomerPhone:   b.CustomerPhone,
		BookingDate:     b.BookingDate.Format("02 Jan 2006"),
		SlotLabel:       b.BookingDate.Format("15:04"),
		RouteName:       r.Name(lang),
		TourType:        string(b.TourType),
		Passengers:      b.NumberOfPassengers,
		Price:           fmt.Sprintf("€%d", catalog.Price(r, b.TourType, b.NumberOfPassengers)),
		DurationMinutes: r.Duration,
		Stops:           r.Stops,
		Status:          string(b.Status),
		Language:        lang,
	}
}
