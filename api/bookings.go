package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ostrenko/skyfare/internal/auth"
	"github.com/ostrenko/skyfare/internal/domain"
	"github.com/ostrenko/skyfare/internal/service/booking"
	"github.com/ostrenko/skyfare/internal/service/coupons"
	"github.com/ostrenko/skyfare/internal/service/flights"
	"github.com/ostrenko/skyfare/internal/service/pricing"
)

type BookingHandler struct {
	service booking.BookingUseCase
	flights flights.FlightUseCase
	catalog []domain.Coupon
}

func NewBookingHandler(service booking.BookingUseCase, flightSvc flights.FlightUseCase, catalog []domain.Coupon) *BookingHandler {
	return &BookingHandler{service: service, flights: flightSvc, catalog: catalog}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings/prepare", h.prepare)
	router.POST("/bookings/coupon", h.applyCoupon)
	router.POST("/bookings", h.submit)
	router.GET("/bookings", h.list)
	router.GET("/bookings/:id", h.get)
}

type passengerRequest struct {
	Type          string `json:"type"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Gender        string `json:"gender"`
	ContactNumber string `json:"contact_number"`
}

type submitBookingRequest struct {
	FlightID    string             `json:"flight_id"`
	CabinClass  string             `json:"cabin_class"`
	QuotedPrice float64            `json:"quoted_price"`
	CouponCode  string             `json:"coupon_code"`
	Passengers  []passengerRequest `json:"passengers"`
}

type prepareResponse struct {
	Offer          *domain.FlightOffer   `json:"offer"`
	SeatsAvailable bool                  `json:"seats_available"`
	Roster         domain.Roster         `json:"roster"`
	Quote          domain.PriceBreakdown `json:"quote"`
}

// prepare assembles everything the booking form needs: the live offer and the
// availability verdict are fetched concurrently and both awaited, plus the
// roster skeleton and an undiscounted quote.
func (h *BookingHandler) prepare(c *gin.Context) {
	flightID, err := uuid.Parse(c.Query("flight_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight_id"})
		return
	}
	cabin := parseCabin(c.DefaultQuery("cabin_class", string(domain.CabinEconomy)))
	adults := queryInt(c, "adults", 1)
	children := queryInt(c, "children", 0)
	infants := queryInt(c, "infants", 0)
	if adults < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one adult is required"})
		return
	}

	ctx := c.Request.Context()

	type offerResult struct {
		offer *domain.FlightOffer
		err   error
	}
	offerCh := make(chan offerResult, 1)
	availCh := make(chan bool, 1)
	go func() {
		offer, err := h.flights.GetOffer(ctx, flightID, cabin)
		offerCh <- offerResult{offer: offer, err: err}
	}()
	go func() {
		availCh <- h.flights.CheckAvailability(ctx, flightID, cabin, adults+children)
	}()

	res := <-offerCh
	available := <-availCh
	if res.err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": res.err.Error()})
		return
	}

	c.JSON(http.StatusOK, prepareResponse{
		Offer:          res.offer,
		SeatsAvailable: available,
		Roster:         domain.NewRoster(adults, children, infants),
		Quote:          pricing.Quote(res.offer.Price, adults, children, infants, nil),
	})
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

func (h *BookingHandler) applyCoupon(c *gin.Context) {
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon := coupons.Resolve(req.Code, h.catalog)
	if coupon == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid coupon code"})
		return
	}
	c.JSON(http.StatusOK, coupon)
}

func (h *BookingHandler) submit(c *gin.Context) {
	var req submitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flightID, err := uuid.Parse(req.FlightID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight_id"})
		return
	}

	roster := make(domain.Roster, 0, len(req.Passengers))
	for i, p := range req.Passengers {
		roster = append(roster, domain.Passenger{
			Index:         i,
			Type:          parsePassengerType(p.Type),
			FirstName:     p.FirstName,
			LastName:      p.LastName,
			Gender:        domain.ParseGender(p.Gender),
			ContactNumber: p.ContactNumber,
		})
	}

	result, err := h.service.SubmitBooking(c.Request.Context(), auth.FromContext(c), booking.SubmitInput{
		FlightID:    flightID,
		CabinClass:  parseCabin(req.CabinClass),
		QuotedPrice: req.QuotedPrice,
		Roster:      roster,
		CouponCode:  req.CouponCode,
	})
	if err != nil {
		c.JSON(submitStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	record, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	// Bookings are visible to their owner only.
	if record.UserProfileID != auth.FromContext(c).UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *BookingHandler) list(c *gin.Context) {
	session := auth.FromContext(c)
	bookings, err := h.service.ListUserBookings(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// submitStatus maps orchestrator failures to HTTP statuses. Validation
// failures are client errors; only a persistence failure reads as a server
// fault worth a manual retry.
func submitStatus(err error) int {
	switch {
	case errors.Is(err, booking.ErrIncompleteDetails),
		errors.Is(err, booking.ErrInvalidCoupon):
		return http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrInsufficientSeats):
		return http.StatusConflict
	case errors.Is(err, booking.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, booking.ErrOfferUnavailable):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func parsePassengerType(raw string) domain.PassengerType {
	switch domain.PassengerType(raw) {
	case domain.PassengerChild:
		return domain.PassengerChild
	case domain.PassengerInfant:
		return domain.PassengerInfant
	default:
		return domain.PassengerAdult
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
