package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ostrenko/skyfare/internal/domain"
)

type BookingRepository interface {
	Insert(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// Insert writes the denormalized booking record in a single round trip. The
// roster is serialized as JSON; id and created_at come back from the row.
func (r *PGBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	passengers, err := json.Marshal(booking.Passengers)
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, `INSERT INTO bookings
		(booking_reference, user_profile_id, flight_number, airline,
		 departure_airport, arrival_airport, departure_datetime, arrival_datetime,
		 passenger_count, passenger_details, total_price, booking_status, payment_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id, created_at`,
		booking.Reference, booking.UserProfileID, booking.FlightNumber, booking.Airline,
		booking.DepartureAirport, booking.ArrivalAirport, booking.DepartureDatetime, booking.ArrivalDatetime,
		booking.PassengerCount, passengers, booking.TotalPrice, booking.BookingStatus, booking.PaymentStatus).
		Scan(&booking.ID, &booking.CreatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_profile_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

const bookingColumns = `id, booking_reference, user_profile_id, flight_number, airline,
	departure_airport, arrival_airport, departure_datetime, arrival_datetime,
	passenger_count, passenger_details, total_price, booking_status, payment_status, created_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var passengers []byte
	if err := row.Scan(&b.ID, &b.Reference, &b.UserProfileID, &b.FlightNumber, &b.Airline,
		&b.DepartureAirport, &b.ArrivalAirport, &b.DepartureDatetime, &b.ArrivalDatetime,
		&b.PassengerCount, &passengers, &b.TotalPrice, &b.BookingStatus, &b.PaymentStatus, &b.CreatedAt); err != nil {
		return nil, err
	}
	if len(passengers) > 0 {
		if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
			return nil, err
		}
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
