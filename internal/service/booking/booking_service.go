package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/ostrenko/skyfare/internal/auth"
	"github.com/ostrenko/skyfare/internal/domain"
	"github.com/ostrenko/skyfare/internal/kafka"
	"github.com/ostrenko/skyfare/internal/payment"
	"github.com/ostrenko/skyfare/internal/repository"
	"github.com/ostrenko/skyfare/internal/service/coupons"
	"github.com/ostrenko/skyfare/internal/service/pricing"
)

type BookingUseCase interface {
	SubmitBooking(ctx context.Context, session auth.Session, input SubmitInput) (*SubmitResult, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
}

type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, flightID uuid.UUID, cabin domain.CabinClass, requiredSeats int) bool
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type SubmitInput struct {
	FlightID    uuid.UUID
	CabinClass  domain.CabinClass
	QuotedPrice float64
	Roster      domain.Roster
	CouponCode  string
}

// PriceChange is the non-blocking drift notice shown when the live price no
// longer matches the search-time quote. The current price is always charged.
type PriceChange struct {
	Direction string  `json:"direction"`
	Amount    float64 `json:"amount"`
}

type SubmitResult struct {
	Booking     *domain.Booking       `json:"booking"`
	Breakdown   domain.PriceBreakdown `json:"breakdown"`
	PriceChange *PriceChange          `json:"price_change,omitempty"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	availability       AvailabilityChecker
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	catalog            []domain.Coupon
	paymentUnit        time.Duration
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithCatalog(catalog []domain.Coupon) BookingServiceOption {
	return func(s *BookingService) {
		s.catalog = catalog
	}
}

// WithPaymentUnit overrides the payment simulator's base tick. Tests shrink
// it so the simulated gateway completes in milliseconds.
func WithPaymentUnit(unit time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.paymentUnit = unit
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	availability AvailabilityChecker,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		flights:      flights,
		availability: availability,
		producer:     producer,
		bookingTopic: bookingTopic,
		catalog:      coupons.DefaultCatalog(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// SubmitBooking turns a selected offer, roster and coupon into a persisted
// booking. Preconditions are checked in order and short-circuit: incomplete
// roster, insufficient seats, unauthenticated caller. On success the payment
// simulation runs to completion, the offer is refetched so the *current*
// price is the one charged, and exactly one record is written. Cancelling ctx
// while payment is in flight cancels the simulator and writes nothing.
func (s *BookingService) SubmitBooking(ctx context.Context, session auth.Session, input SubmitInput) (*SubmitResult, error) {
	if !input.Roster.Complete() {
		return nil, ErrIncompleteDetails
	}

	adults, children, infants := input.Roster.Counts()
	// Infants travel on a lap; only adults and children occupy seats.
	requiredSeats := adults + children
	if !s.availability.CheckAvailability(ctx, input.FlightID, input.CabinClass, requiredSeats) {
		return nil, ErrInsufficientSeats
	}

	if !session.Authenticated() {
		return nil, ErrUnauthenticated
	}

	var coupon *domain.Coupon
	if input.CouponCode != "" {
		if coupon = coupons.Resolve(input.CouponCode, s.catalog); coupon == nil {
			return nil, ErrInvalidCoupon
		}
	}

	if err := s.processPayment(ctx); err != nil {
		return nil, err
	}

	offer, err := s.flights.GetOffer(ctx, input.FlightID, input.CabinClass)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOfferUnavailable, err)
	}

	var change *PriceChange
	if input.QuotedPrice > 0 && input.QuotedPrice != offer.Price {
		change = &PriceChange{Direction: "increased", Amount: offer.Price - input.QuotedPrice}
		if change.Amount < 0 {
			change.Direction = "decreased"
			change.Amount = -change.Amount
		}
	}

	breakdown := pricing.Quote(offer.Price, adults, children, infants, coupon)

	record := &domain.Booking{
		Reference:         NewReference(),
		UserProfileID:     session.UserID,
		FlightNumber:      offer.FlightNumber,
		Airline:           offer.Airline,
		DepartureAirport:  offer.DepartureAirport,
		ArrivalAirport:    offer.ArrivalAirport,
		DepartureDatetime: offer.DepartureTime,
		ArrivalDatetime:   offer.ArrivalTime,
		PassengerCount:    len(input.Roster),
		Passengers:        input.Roster,
		TotalPrice:        breakdown.Total,
		BookingStatus:     domain.BookingStatusConfirmed,
		PaymentStatus:     domain.PaymentStatusCompleted,
	}
	if err := s.bookings.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	if err := s.publish(ctx, "booking_confirmed", session.Email, record); err != nil {
		log.Printf("WARNING: failed to publish booking_confirmed event for booking %s: %v", record.Reference, err)
	}

	return &SubmitResult{Booking: record, Breakdown: breakdown, PriceChange: change}, nil
}

// processPayment drives one simulator activation to completion. Each
// submission gets its own simulator instance; no payment state crosses
// session boundaries.
func (s *BookingService) processPayment(ctx context.Context) error {
	sim := payment.NewSimulator(s.paymentUnit)
	done := make(chan struct{})
	sim.Activate(func() { close(done) }, nil)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		sim.Cancel()
		return ctx.Err()
	}
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// Catalog exposes the coupon catalog so the API layer can validate codes as
// the user applies them, ahead of submission.
func (s *BookingService) Catalog() []domain.Coupon {
	return s.catalog
}

func (s *BookingService) publish(ctx context.Context, eventType, email string, record *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:         eventType,
		Reference:    record.Reference,
		FlightNumber: record.FlightNumber,
		Airline:      record.Airline,
		Email:        email,
		TotalPrice:   record.TotalPrice,
		Status:       string(record.BookingStatus),
		CreatedAt:    record.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, record.Reference, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, record.Reference, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
