package flights

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/ostrenko/skyfare/internal/domain"
	"github.com/ostrenko/skyfare/internal/repository"
)

type FlightUseCase interface {
	Airports(ctx context.Context) ([]domain.Airport, error)
	Search(ctx context.Context, q SearchInput) (*SearchResults, error)
	GetOffer(ctx context.Context, flightID uuid.UUID, cabin domain.CabinClass) (*domain.FlightOffer, error)
	CheckAvailability(ctx context.Context, flightID uuid.UUID, cabin domain.CabinClass, requiredSeats int) bool
}

type Cache interface {
	GetAirports(ctx context.Context) ([]domain.Airport, error)
	SetAirports(ctx context.Context, airports []domain.Airport) error
	GetSearch(ctx context.Context, q repository.SearchQuery) ([]domain.FlightOffer, error)
	SetSearch(ctx context.Context, q repository.SearchQuery, offers []domain.FlightOffer) error
}

type SearchInput struct {
	Outbound  repository.SearchQuery
	ReturnLeg *repository.SearchQuery
	RoundTrip bool
}

type SearchResults struct {
	OutboundFlights []domain.FlightOffer `json:"outbound_flights"`
	ReturnFlights   []domain.FlightOffer `json:"return_flights,omitempty"`
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
}

func NewFlightService(repo repository.FlightRepository, cache Cache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) Airports(ctx context.Context) ([]domain.Airport, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAirports(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	airports, err := s.repo.ListAirports(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetAirports(ctx, airports)
	}
	return airports, nil
}

// Search runs the outbound leg and, for round trips, the return leg with
// origin and destination swapped.
func (s *FlightService) Search(ctx context.Context, q SearchInput) (*SearchResults, error) {
	outbound, err := s.searchLeg(ctx, q.Outbound)
	if err != nil {
		return nil, err
	}

	results := &SearchResults{OutboundFlights: outbound}
	if q.RoundTrip && q.ReturnLeg != nil {
		ret, err := s.searchLeg(ctx, *q.ReturnLeg)
		if err != nil {
			return nil, err
		}
		results.ReturnFlights = ret
	}
	return results, nil
}

func (s *FlightService) searchLeg(ctx context.Context, q repository.SearchQuery) ([]domain.FlightOffer, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSearch(ctx, q); err == nil && cached != nil {
			return cached, nil
		}
	}

	offers, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSearch(ctx, q, offers)
	}
	return offers, nil
}

func (s *FlightService) GetOffer(ctx context.Context, flightID uuid.UUID, cabin domain.CabinClass) (*domain.FlightOffer, error) {
	return s.repo.GetOffer(ctx, flightID, cabin)
}

// CheckAvailability is a point-in-time verdict, not a reservation: no seat is
// held. Fails closed: a lookup error or missing inventory row reads as "not
// enough seats", never as an error.
func (s *FlightService) CheckAvailability(ctx context.Context, flightID uuid.UUID, cabin domain.CabinClass, requiredSeats int) bool {
	seats, err := s.repo.SeatsAvailable(ctx, flightID, cabin)
	if err != nil {
		log.Printf("check availability for flight %s %s: %v", flightID, cabin, err)
		return false
	}
	return seats >= requiredSeats
}

var _ FlightUseCase = (*FlightService)(nil)
