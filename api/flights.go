package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ostrenko/skyfare/internal/domain"
	"github.com/ostrenko/skyfare/internal/repository"
	"github.com/ostrenko/skyfare/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/airports", h.airports)
	router.GET("/flights/search", h.search)
	router.GET("/flights/:id", h.get)
}

func (h *FlightHandler) airports(c *gin.Context) {
	airports, err := h.service.Airports(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, airports)
}

func (h *FlightHandler) search(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")
	if origin == "" || destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and destination are required"})
		return
	}

	departDate, err := time.Parse("2006-01-02", c.Query("depart_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid depart_date"})
		return
	}

	cabin := parseCabin(c.DefaultQuery("cabin_class", string(domain.CabinEconomy)))

	input := flights.SearchInput{
		Outbound: repository.SearchQuery{
			Origin:      origin,
			Destination: destination,
			Date:        departDate,
			CabinClass:  cabin,
		},
	}

	if raw := c.Query("return_date"); raw != "" {
		returnDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid return_date"})
			return
		}
		input.RoundTrip = true
		input.ReturnLeg = &repository.SearchQuery{
			Origin:      destination,
			Destination: origin,
			Date:        returnDate,
			CabinClass:  cabin,
		}
	}

	results, err := h.service.Search(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	cabin := parseCabin(c.DefaultQuery("cabin_class", string(domain.CabinEconomy)))

	offer, err := h.service.GetOffer(c.Request.Context(), id, cabin)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, offer)
}

func parseCabin(raw string) domain.CabinClass {
	switch domain.CabinClass(raw) {
	case domain.CabinPremium:
		return domain.CabinPremium
	case domain.CabinBusiness:
		return domain.CabinBusiness
	case domain.CabinFirst:
		return domain.CabinFirst
	default:
		return domain.CabinEconomy
	}
}
