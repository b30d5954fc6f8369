package domain

import (
	"time"

	"github.com/google/uuid"
)

type CabinClass string

const (
	CabinEconomy  CabinClass = "economy"
	CabinPremium  CabinClass = "premium"
	CabinBusiness CabinClass = "business"
	CabinFirst    CabinClass = "first"
)

type Airport struct {
	ID      uuid.UUID
	Code    string
	Name    string
	City    string
	Country string
}

// FlightOffer is a point-in-time snapshot of a flight plus the inventory row
// for one cabin class. Price and SeatsAvailable may go stale between search
// and booking; the orchestrator refetches before charging.
type FlightOffer struct {
	ID               uuid.UUID
	FlightNumber     string
	Airline          string
	AirlineLogo      string
	DepartureAirport string
	DepartureCity    string
	ArrivalAirport   string
	ArrivalCity      string
	DepartureTime    time.Time
	ArrivalTime      time.Time
	Duration         string
	CabinClass       CabinClass
	Price            float64
	SeatsAvailable   int
}
