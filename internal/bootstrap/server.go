package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ostrenko/skyfare/api"
	"github.com/ostrenko/skyfare/config"
	"github.com/ostrenko/skyfare/internal/auth"
	"github.com/ostrenko/skyfare/internal/domain"
	"github.com/ostrenko/skyfare/internal/service/booking"
	"github.com/ostrenko/skyfare/internal/service/flights"
)

// Run starts the HTTP server and blocks until the context is cancelled or the
// server fails. Shutdown drains in-flight requests for up to five seconds.
func Run(ctx context.Context, cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc *booking.BookingService) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(cfg, flightSvc, bookingSvc, bookingSvc.Catalog()),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// NewRouter wires the public flights surface and the token-protected bookings
// surface onto one gin engine.
func NewRouter(cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase, catalog []domain.Coupon) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	public := router.Group("/api/v1")
	api.NewFlightHandler(flightSvc).Register(public)

	protected := router.Group("/api/v1")
	protected.Use(auth.Middleware(cfg.Auth.JWTSecret))
	api.NewBookingHandler(bookingSvc, flightSvc, catalog).Register(protected)

	return router
}
