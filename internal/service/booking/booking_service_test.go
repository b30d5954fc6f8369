package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ostrenko/skyfare/internal/auth"
	"github.com/ostrenko/skyfare/internal/domain"
	"github.com/ostrenko/skyfare/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *MockFlightRepository) Search(ctx context.Context, q repository.SearchQuery) ([]domain.FlightOffer, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightOffer), args.Error(1)
}

func (m *MockFlightRepository) GetOffer(ctx context.Context, flightID uuid.UUID, cabin domain.CabinClass) (*domain.FlightOffer, error) {
	args := m.Called(ctx, flightID, cabin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightOffer), args.Error(1)
}

func (m *MockFlightRepository) SeatsAvailable(ctx context.Context, flightID uuid.UUID, cabin domain.CabinClass) (int, error) {
	args := m.Called(ctx, flightID, cabin)
	return args.Int(0), args.Error(1)
}

type MockAvailability struct {
	mock.Mock
}

func (m *MockAvailability) CheckAvailability(ctx context.Context, flightID uuid.UUID, cabin domain.CabinClass, requiredSeats int) bool {
	args := m.Called(ctx, flightID, cabin, requiredSeats)
	return args.Bool(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

// testUnit keeps every simulated payment under 50ms.
const testUnit = time.Millisecond

var referencePattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)

func completeRoster() domain.Roster {
	roster := domain.NewRoster(2, 1, 0)
	for i := range roster {
		roster[i].FirstName = "Rohan"
		roster[i].LastName = "Mehta"
		roster[i].Gender = domain.GenderMale
	}
	roster[0].ContactNumber = "+91 99887 76655"
	return roster
}

func testSession() auth.Session {
	return auth.Session{UserID: uuid.New(), Email: "rohan@example.com"}
}

func testOffer(flightID uuid.UUID) *domain.FlightOffer {
	return &domain.FlightOffer{
		ID:               flightID,
		FlightNumber:     "SF204",
		Airline:          "SkyFare Air",
		DepartureAirport: "DEL",
		ArrivalAirport:   "BOM",
		DepartureTime:    time.Date(2026, 9, 15, 6, 30, 0, 0, time.UTC),
		ArrivalTime:      time.Date(2026, 9, 15, 8, 45, 0, 0, time.UTC),
		CabinClass:       domain.CabinEconomy,
		Price:            5000,
		SeatsAvailable:   20,
	}
}

func newTestService(bookings *MockBookingRepository, flights *MockFlightRepository, avail *MockAvailability, producer Producer) *BookingService {
	return NewBookingService(bookings, flights, avail, producer, "booking_topic",
		WithNotificationsTopic("notifications_topic"),
		WithPaymentUnit(testUnit))
}

func TestSubmitBooking_Success(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightRepository{}
	avail := &MockAvailability{}
	producer := &MockProducer{}
	service := newTestService(bookings, flights, avail, producer)

	ctx := context.Background()
	flightID := uuid.New()
	session := testSession()
	input := SubmitInput{
		FlightID:    flightID,
		CabinClass:  domain.CabinEconomy,
		QuotedPrice: 5000,
		Roster:      completeRoster(),
		CouponCode:  "SUMMER25",
	}

	// 2 adults + 1 child occupy 3 seats
	avail.On("CheckAvailability", ctx, flightID, domain.CabinEconomy, 3).Return(true).Once()
	flights.On("GetOffer", ctx, flightID, domain.CabinEconomy).Return(testOffer(flightID), nil).Once()
	bookings.On("Insert", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	producer.On("Publish", ctx, "booking_topic", mock.Anything, mock.Anything).Return(nil).Once()
	producer.On("Publish", ctx, "notifications_topic", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := service.SubmitBooking(ctx, session, input)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Regexp(t, referencePattern, result.Booking.Reference)
	assert.Equal(t, domain.BookingStatusConfirmed, result.Booking.BookingStatus)
	assert.Equal(t, domain.PaymentStatusCompleted, result.Booking.PaymentStatus)
	assert.Equal(t, session.UserID, result.Booking.UserProfileID)
	assert.Equal(t, 3, result.Booking.PassengerCount)
	// 5000*2 + 5000*0.75 = 13750, minus 25%
	assert.InDelta(t, 10312.5, result.Booking.TotalPrice, 1e-9)
	assert.Nil(t, result.PriceChange)

	avail.AssertExpectations(t)
	flights.AssertExpectations(t)
	bookings.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestSubmitBooking_IncompleteRoster(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightRepository{}
	avail := &MockAvailability{}
	service := newTestService(bookings, flights, avail, nil)

	roster := completeRoster()
	roster[0].ContactNumber = "" // lead passenger must carry a contact number

	result, err := service.SubmitBooking(context.Background(), testSession(), SubmitInput{
		FlightID:   uuid.New(),
		CabinClass: domain.CabinEconomy,
		Roster:     roster,
	})

	assert.ErrorIs(t, err, ErrIncompleteDetails)
	assert.Nil(t, result)
	avail.AssertNotCalled(t, "CheckAvailability")
	bookings.AssertNotCalled(t, "Insert")
}

func TestSubmitBooking_InsufficientSeats(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightRepository{}
	avail := &MockAvailability{}
	service := newTestService(bookings, flights, avail, nil)

	ctx := context.Background()
	flightID := uuid.New()

	avail.On("CheckAvailability", ctx, flightID, domain.CabinEconomy, 3).Return(false).Once()

	result, err := service.SubmitBooking(ctx, testSession(), SubmitInput{
		FlightID:   flightID,
		CabinClass: domain.CabinEconomy,
		Roster:     completeRoster(),
	})

	assert.ErrorIs(t, err, ErrInsufficientSeats)
	assert.Nil(t, result)
	bookings.AssertNotCalled(t, "Insert")
}

func TestSubmitBooking_Unauthenticated(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightRepository{}
	avail := &MockAvailability{}
	service := newTestService(bookings, flights, avail, nil)

	ctx := context.Background()
	flightID := uuid.New()

	avail.On("CheckAvailability", ctx, flightID, domain.CabinEconomy, 3).Return(true).Once()

	result, err := service.SubmitBooking(ctx, auth.Session{}, SubmitInput{
		FlightID:   flightID,
		CabinClass: domain.CabinEconomy,
		Roster:     completeRoster(),
	})

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Nil(t, result)
	bookings.AssertNotCalled(t, "Insert")
}

func TestSubmitBooking_InvalidCoupon(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightRepository{}
	avail := &MockAvailability{}
	service := newTestService(bookings, flights, avail, nil)

	ctx := context.Background()
	flightID := uuid.New()

	avail.On("CheckAvailability", ctx, flightID, domain.CabinEconomy, 3).Return(true).Once()

	result, err := service.SubmitBooking(ctx, testSession(), SubmitInput{
		FlightID:   flightID,
		CabinClass: domain.CabinEconomy,
		Roster:     completeRoster(),
		CouponCode: "BOGUS99",
	})

	assert.ErrorIs(t, err, ErrInvalidCoupon)
	assert.Nil(t, result)
	flights.AssertNotCalled(t, "GetOffer")
}

func TestSubmitBooking_OfferFetchFails(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightRepository{}
	avail := &MockAvailability{}
	service := newTestService(bookings, flights, avail, nil)

	ctx := context.Background()
	flightID := uuid.New()

	avail.On("CheckAvailability", ctx, flightID, domain.CabinEconomy, 3).Return(true).Once()
	flights.On("GetOffer", ctx, flightID, domain.CabinEconomy).Return(nil, errors.New("inventory gone")).Once()

	result, err := service.SubmitBooking(ctx, testSession(), SubmitInput{
		FlightID:   flightID,
		CabinClass: domain.CabinEconomy,
		Roster:     completeRoster(),
	})

	assert.ErrorIs(t, err, ErrOfferUnavailable)
	assert.Nil(t, result)
	bookings.AssertNotCalled(t, "Insert")
}

func TestSubmitBooking_PersistenceFails(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightRepository{}
	avail := &MockAvailability{}
	service := newTestService(bookings, flights, avail, nil)

	ctx := context.Background()
	flightID := uuid.New()

	avail.On("CheckAvailability", ctx, flightID, domain.CabinEconomy, 3).Return(true).Once()
	flights.On("GetOffer", ctx, flightID, domain.CabinEconomy).Return(testOffer(flightID), nil).Once()
	bookings.On("Insert", ctx, mock.AnythingOfType("*domain.Booking")).Return(errors.New("insert failed")).Once()

	result, err := service.SubmitBooking(ctx, testSession(), SubmitInput{
		FlightID:   flightID,
		CabinClass: domain.CabinEconomy,
		Roster:     completeRoster(),
	})

	assert.ErrorIs(t, err, ErrPersistenceFailed)
	assert.Nil(t, result)
}

func TestSubmitBooking_PriceDrift(t *testing.T) {
	testCases := []struct {
		name          string
		quoted        float64
		wantDirection string
		wantAmount    float64
	}{
		{name: "price increased", quoted: 4500, wantDirection: "increased", wantAmount: 500},
		{name: "price decreased", quoted: 5500, wantDirection: "decreased", wantAmount: 500},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bookings := &MockBookingRepository{}
			flights := &MockFlightRepository{}
			avail := &MockAvailability{}
			service := newTestService(bookings, flights, avail, nil)

			ctx := context.Background()
			flightID := uuid.New()
			offer := testOffer(flightID) // current price 5000

			avail.On("CheckAvailability", ctx, flightID, domain.CabinEconomy, 3).Return(true).Once()
			flights.On("GetOffer", ctx, flightID, domain.CabinEconomy).Return(offer, nil).Once()
			bookings.On("Insert", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()

			result, err := service.SubmitBooking(ctx, testSession(), SubmitInput{
				FlightID:    flightID,
				CabinClass:  domain.CabinEconomy,
				QuotedPrice: tc.quoted,
				Roster:      completeRoster(),
			})

			assert.NoError(t, err)
			// the drift is advisory: submission went through at the current price
			assert.NotNil(t, result.PriceChange)
			assert.Equal(t, tc.wantDirection, result.PriceChange.Direction)
			assert.InDelta(t, tc.wantAmount, result.PriceChange.Amount, 1e-9)
			assert.InDelta(t, 13750.0, result.Booking.TotalPrice, 1e-9)
		})
	}
}

func TestSubmitBooking_CancelledContextWritesNothing(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightRepository{}
	avail := &MockAvailability{}
	service := NewBookingService(bookings, flights, avail, nil, "booking_topic",
		WithPaymentUnit(50*time.Millisecond)) // slow enough to cancel mid-payment

	ctx, cancel := context.WithCancel(context.Background())
	flightID := uuid.New()

	avail.On("CheckAvailability", ctx, flightID, domain.CabinEconomy, 3).Return(true).Once()

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	result, err := service.SubmitBooking(ctx, testSession(), SubmitInput{
		FlightID:   flightID,
		CabinClass: domain.CabinEconomy,
		Roster:     completeRoster(),
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
	flights.AssertNotCalled(t, "GetOffer")
	bookings.AssertNotCalled(t, "Insert")
}

// Two sequential submissions both succeed and mint distinct references;
// nothing dedupes identical inputs.
func TestSubmitBooking_SequentialSubmissionsNotDeduped(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightRepository{}
	avail := &MockAvailability{}
	service := newTestService(bookings, flights, avail, nil)

	ctx := context.Background()
	flightID := uuid.New()
	session := testSession()
	input := SubmitInput{
		FlightID:   flightID,
		CabinClass: domain.CabinEconomy,
		Roster:     completeRoster(),
	}

	avail.On("CheckAvailability", ctx, flightID, domain.CabinEconomy, 3).Return(true).Twice()
	flights.On("GetOffer", ctx, flightID, domain.CabinEconomy).Return(testOffer(flightID), nil).Twice()
	bookings.On("Insert", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Twice()

	first, err := service.SubmitBooking(ctx, session, input)
	assert.NoError(t, err)
	second, err := service.SubmitBooking(ctx, session, input)
	assert.NoError(t, err)

	assert.NotEqual(t, first.Booking.Reference, second.Booking.Reference)
	bookings.AssertNumberOfCalls(t, "Insert", 2)
}

func TestSubmitBooking_PublishFailureDoesNotFailBooking(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightRepository{}
	avail := &MockAvailability{}
	producer := &MockProducer{}
	service := newTestService(bookings, flights, avail, producer)

	ctx := context.Background()
	flightID := uuid.New()

	avail.On("CheckAvailability", ctx, flightID, domain.CabinEconomy, 3).Return(true).Once()
	flights.On("GetOffer", ctx, flightID, domain.CabinEconomy).Return(testOffer(flightID), nil).Once()
	bookings.On("Insert", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	producer.On("Publish", ctx, "booking_topic", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	result, err := service.SubmitBooking(ctx, testSession(), SubmitInput{
		FlightID:   flightID,
		CabinClass: domain.CabinEconomy,
		Roster:     completeRoster(),
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestGetBooking_PassesThrough(t *testing.T) {
	bookings := &MockBookingRepository{}
	service := newTestService(bookings, &MockFlightRepository{}, &MockAvailability{}, nil)

	ctx := context.Background()
	record := &domain.Booking{ID: 7, Reference: "KQN204"}
	bookings.On("GetByID", ctx, int64(7)).Return(record, nil).Once()

	got, err := service.GetBooking(ctx, 7)

	assert.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestListUserBookings_PassesThrough(t *testing.T) {
	bookings := &MockBookingRepository{}
	service := newTestService(bookings, &MockFlightRepository{}, &MockAvailability{}, nil)

	ctx := context.Background()
	userID := uuid.New()
	records := []domain.Booking{{ID: 1}, {ID: 2}}
	bookings.On("ListByUser", ctx, userID).Return(records, nil).Once()

	got, err := service.ListUserBookings(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestNewReference_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Regexp(t, referencePattern, NewReference())
	}
}
