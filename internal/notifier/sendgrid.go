package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adriaway/booking/internal/domain"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGrid delivers booking emails through the SendGrid v3 API.
type SendGrid struct {
	apiKey    string
	fromEmail string
	fromName  string
	logger    *slog.Logger
}

func NewSendGrid(apiKey, fromEmail, fromName string, logger *slog.Logger) *SendGrid {
	if fromName == "" {
		fromName = "Adriaway Boat Tours"
	}
	return &SendGrid{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
}

func (s *SendGrid) Send(ctx context.Context, kind TemplateKind, recipient string, f Fields) error {
	const op = "notifier.SendGrid.Send"

	if s.apiKey == "" || s.fromEmail == "" {
		return fmt.Errorf("%s: sendgrid is not configured", op)
	}

	subject := Subject(kind, f)
	plain := PlainBody(kind, f)
	html := HTMLBody(kind, f)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(f.CustomerName, recipient)
	message := mail.NewSingleEmail(from, subject, to, plain, html)

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: sendgrid returned status %d: %s", op, resp.StatusCode, resp.Body)
	}

	s.logger.Info("booking email sent",
		"kind", string(kind), "recipient", recipient, "booking_id", f.BookingID)

	return nil
}

// Subject picks the email subject. Customer subjects follow the booking
// language; the operator always reads English.
func Subject(kind TemplateKind, f Fields) string {
	if kind == TemplateAdmin {
		return fmt.Sprintf("Booking %s: %s on %s", f.Status, f.RouteName, f.BookingDate)
	}
	if f.Language == domain.LangHR {
		return fmt.Sprintf("Vaša rezervacija je %s - %s", statusHR(f.Status), f.RouteName)
	}
	return fmt.Sprintf("Your booking is %s - %s", f.Status, f.RouteName)
}

func PlainBody(kind TemplateKind, f Fields) string {
	stops := strings.Join(f.Stops, ", ")
	duration := fmt.Sprintf("%dh %dmin", f.DurationMinutes/60, f.DurationMinutes%60)

	if kind == TemplateAdmin {
		return fmt.Sprintf(
			"New booking update\n\n"+
				"Booking ID: %s\n"+
				"Status: %s\n"+
				"Customer: %s (%s, %s)\n"+
				"Route: %s\n"+
				"Tour type: %s\n"+
				"Date: %s at %s\n"+
				"Passengers: %d\n"+
				"Price: %s\n"+
				"Duration: %s\n"+
				"Stops: %s\n",
			f.BookingID, f.Status, f.CustomerName, f.CustomerEmail, f.CustomerPhone,
			f.RouteName, f.TourType, f.BookingDate, f.SlotLabel,
			f.Passengers, f.Price, duration, stops,
		)
	}

	if f.Language == domain.LangHR {
		return fmt.Sprintf(
			"Poštovani %s,\n\n"+
				"Vaša rezervacija je %s.\n\n"+
				"Detalji rezervacije:\n"+
				"Broj rezervacije: %s\n"+
				"Tura: %s\n"+
				"Datum: %s u %s\n"+
				"Broj putnika: %d\n"+
				"Cijena: %s\n"+
				"Trajanje: %s\n"+
				"Stajališta: %s\n\n"+
				"Hvala vam što ste odabrali Adriaway.\n",
			f.CustomerName, statusHR(f.Status), f.BookingID, f.RouteName,
			f.BookingDate, f.SlotLabel, f.Passengers, f.Price, duration, stops,
		)
	}

	return fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your booking is %s.\n\n"+
			"Booking details:\n"+
			"Booking ID: %s\n"+
			"Tour: %s\n"+
			"Date: %s at %s\n"+
			"Passengers: %d\n"+
			"Price: %s\n"+
			"Duration: %s\n"+
			"Stops: %s\n\n"+
			"Thank you for choosing Adriaway.\n",
		f.CustomerName, f.Status, f.BookingID, f.RouteName,
		f.BookingDate, f.SlotLabel, f.Passengers, f.Price, duration, stops,
	)
}

func HTMLBody(kind TemplateKind, f Fields) string {
	plain := PlainBody(kind, f)
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(plain, "\n"), "\n") {
		b.WriteString("<p>")
		b.WriteString(line)
		b.WriteString("</p>")
	}
	return b.String()
}

func statusHR(status string) string {
	switch status {
	case string(domain.StatusPending):
		return "zaprimljena"
	case string(domain.StatusConfirmed):
		return "potvrđena"
	case string(domain.StatusCancelled):
		return "otkazana"
	}
	return status
}
