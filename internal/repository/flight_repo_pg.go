package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ostrenko/skyfare/internal/domain"
)

var ErrNotFound = errors.New("not found")

type SearchQuery struct {
	Origin      string
	Destination string
	Date        time.Time
	CabinClass  domain.CabinClass
}

type FlightRepository interface {
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	Search(ctx context.Context, q SearchQuery) ([]domain.FlightOffer, error)
	GetOffer(ctx context.Context, flightID uuid.UUID, cabin domain.CabinClass) (*domain.FlightOffer, error)
	SeatsAvailable(ctx context.Context, flightID uuid.UUID, cabin domain.CabinClass) (int, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name, city, country FROM airports ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Country); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

const offerColumns = `f.id, f.flight_number, al.name, al.logo,
	f.departure_airport, dep.city, f.arrival_airport, arr.city,
	f.departure_time, f.arrival_time, f.duration,
	inv.cabin_class, inv.price, inv.seats_available`

const offerJoins = `FROM flights f
	JOIN airlines al ON al.id = f.airline_id
	JOIN airports dep ON dep.code = f.departure_airport
	JOIN airports arr ON arr.code = f.arrival_airport
	JOIN flight_inventory inv ON inv.flight_id = f.id`

// Search returns offers for a route on one calendar day in the requested
// cabin. Offers with no seats left are filtered out at the query.
func (r *PGFlightRepository) Search(ctx context.Context, q SearchQuery) ([]domain.FlightOffer, error) {
	dayStart := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, q.Date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := r.db.Query(ctx, `SELECT `+offerColumns+` `+offerJoins+`
		WHERE f.departure_airport=$1 AND f.arrival_airport=$2
		  AND f.departure_time >= $3 AND f.departure_time < $4
		  AND inv.cabin_class=$5 AND inv.seats_available > 0
		ORDER BY f.departure_time`,
		q.Origin, q.Destination, dayStart, dayEnd, q.CabinClass)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := make([]domain.FlightOffer, 0)
	for rows.Next() {
		var o domain.FlightOffer
		if err := scanOffer(rows, &o); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *PGFlightRepository) GetOffer(ctx context.Context, flightID uuid.UUID, cabin domain.CabinClass) (*domain.FlightOffer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+offerColumns+` `+offerJoins+`
		WHERE f.id=$1 AND inv.cabin_class=$2`, flightID, cabin)
	var o domain.FlightOffer
	if err := scanOffer(row, &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGFlightRepository) SeatsAvailable(ctx context.Context, flightID uuid.UUID, cabin domain.CabinClass) (int, error) {
	var seats int
	err := r.db.QueryRow(ctx, `SELECT seats_available FROM flight_inventory WHERE flight_id=$1 AND cabin_class=$2`, flightID, cabin).Scan(&seats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return seats, nil
}

func scanOffer(row pgx.Row, o *domain.FlightOffer) error {
	return row.Scan(&o.ID, &o.FlightNumber, &o.Airline, &o.AirlineLogo,
		&o.DepartureAirport, &o.DepartureCity, &o.ArrivalAirport, &o.ArrivalCity,
		&o.DepartureTime, &o.ArrivalTime, &o.Duration,
		&o.CabinClass, &o.Price, &o.SeatsAvailable)
}

var _ FlightRepository = (*PGFlightRepository)(nil)
