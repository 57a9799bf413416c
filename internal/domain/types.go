package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Language string

const (
	LangEN Language = "en"
	LangHR Language = "hr"
)

func (l Language) Valid() bool {
	return l == LangEN || l == LangHR
}

type TourType string

const (
	TourGroup   TourType = "group"
	TourPrivate TourType = "private"
	TourTaxi    TourType = "taxi"
)

func (t TourType) Valid() bool {
	return t == TourGroup || t == TourPrivate || t == TourTaxi
}

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// Route is static reference data, loaded once from the catalog and never
// mutated. Prices are whole euros; a zero optional price means "not offered".
type Route struct {
	ID                         string
	NameEN                     string
	NameHR                     string
	DescriptionEN              string
	DescriptionHR              string
	Duration                   int // minutes
	Capacity                   int
	BasePrice                  int
	PrivateTourPrice           int
	DiscountedPrivateTourPrice int
	Stops                      []string
}

func (r Route) Name(lang Language) string {
	if lang == LangHR {
		return r.NameHR
	}
	return r.NameEN
}

func (r Route) Description(lang Language) string {
	if lang == LangHR {
		return r.DescriptionHR
	}
	return r.DescriptionEN
}

// IsTransfer reports whether the route is a point-to-point taxi transfer.
func (r Route) IsTransfer() bool {
	return strings.Contains(r.ID, "transfer")
}

// TimeSlot is a derived value computed per generation call; it is never
// persisted independently of the date that produced it.
type TimeSlot struct {
	ID                 string
	RouteID            string
	StartTime          time.Time
	EndTime            time.Time
	Type               TourType
	AvailableSeats     int
	SeasonalMultiplier float64
}

// BookingDraft is the in-progress record accumulated by the wizard.
// SelectedDate carries date precision only; a zero value means "not chosen".
type BookingDraft struct {
	TourType           TourType
	RouteID            string
	SelectedDate       time.Time
	TimeSlotID         string
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      string
	NumberOfPassengers int
	Language           Language
}

// Booking is the persisted record. BookingDate equals the exact start time
// of the booked slot; the availability filter relies on that equality.
type Booking struct {
	ID                 uuid.UUID
	TimeSlotID         string
	BookingDate        time.Time
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      string
	NumberOfPassengers int
	RouteID            string
	TourType           TourType
	Status             BookingStatus
	CreatedAt          time.Time
}

// BookingFilter narrows store queries. Nil pointers mean "any".
type BookingFilter struct {
	TourType       *TourType
	TourTypeNot    *TourType
	RouteID        *string
	BookingDate    *time.Time
	Status         *BookingStatus
	OrderByDateAsc bool
}
