package email

import (
	"context"
	"log"

	"github.com/ostrenko/skyfare/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

// Send delivers the booking confirmation. Stub transport: the real SMTP
// integration lives outside this service, so the worker just logs the intent.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log.Printf("send %s email to %s: booking %s on %s %s, total %.2f",
		event.Type, event.Email, event.Reference, event.Airline, event.FlightNumber, event.TotalPrice)
	return nil
}
