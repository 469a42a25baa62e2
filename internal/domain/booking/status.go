package booking

import (
	"time"

	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/models"
)

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Active statuses occupy a slot; completed and cancelled bookings do not.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// pending -> confirmed -> completed, cancelled reachable from pending or
// confirmed. completed and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ===============================
// Domain Actions
// ===============================

func Transition(b *models.Booking, to Status, now time.Time) error {
	if !to.Valid() {
		return httperr.ErrBusiness("invalid_status")
	}
	if !CanTransition(Status(b.Status), to) {
		return httperr.ErrBusiness("invalid_state")
	}

	b.Status = string(to)
	switch to {
	case StatusConfirmed:
		b.ConfirmedAt = &now
	case StatusCompleted:
		b.CompletedAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
	}
	return nil
}

func Cancel(b *models.Booking, now time.Time) error {
	return Transition(b, StatusCancelled, now)
}
