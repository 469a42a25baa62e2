package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher sends confirmation mail off the request path. Same
// contract as the audit dispatcher: never blocks, drops on a full
// queue. Reminders are not routed through here; the sweep sends them
// synchronously so a delivery failure can reset the per-booking flag.
type Dispatcher struct {
	mailer Mailer
	log    zerolog.Logger
	queue  chan BookingMessage
}

func NewDispatcher(mailer Mailer, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		mailer: mailer,
		log:    log,
		queue:  make(chan BookingMessage, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := d.mailer.SendBookingConfirmation(ctx, msg)
		cancel()

		if err != nil {
			d.log.Error().Err(err).Str("to", msg.To).Msg("mail send failed")
		}
	}
}

func (d *Dispatcher) DispatchConfirmation(msg BookingMessage) {
	if d == nil {
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.log.Warn().Str("to", msg.To).Msg("mail queue full, dropping message")
	}
}
