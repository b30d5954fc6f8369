package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusPending   BookingStatus = "pending"
)

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Booking is the persisted record of one successful submission. Flight fields
// are denormalized from the offer at commit time, not a live reference.
// Immutable once written.
type Booking struct {
	ID                int64
	Reference         string
	UserProfileID     uuid.UUID
	FlightNumber      string
	Airline           string
	DepartureAirport  string
	ArrivalAirport    string
	DepartureDatetime time.Time
	ArrivalDatetime   time.Time
	PassengerCount    int
	Passengers        Roster
	TotalPrice        float64
	BookingStatus     BookingStatus
	PaymentStatus     PaymentStatus
	CreatedAt         time.Time
}
