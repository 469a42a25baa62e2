package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// BookingMessage is the template payload for booking emails.
type BookingMessage struct {
	To          string
	Name        string
	BarberName  string
	ServiceName string
	Date        string
	StartTime   string
}

// Mailer is the delivery boundary. The platform treats delivery as
// fire-and-forget: a send failure is logged and never propagated into
// the booking or reminder flow.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, msg BookingMessage) error
	SendReminder(ctx context.Context, msg BookingMessage) error
}

// LogMailer stands in for the external mail provider. It writes the
// message to the log instead of delivering it.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendBookingConfirmation(ctx context.Context, msg BookingMessage) error {
	m.log.Info().
		Str("to", msg.To).
		Str("date", msg.Date).
		Str("start_time", msg.StartTime).
		Str("service", msg.ServiceName).
		Msg("booking confirmation email")
	return nil
}

func (m *LogMailer) SendReminder(ctx context.Context, msg BookingMessage) error {
	m.log.Info().
		Str("to", msg.To).
		Str("date", msg.Date).
		Str("start_time", msg.StartTime).
		Msg("booking reminder email")
	return nil
}

var _ Mailer = (*LogMailer)(nil)
