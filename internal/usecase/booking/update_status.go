package booking

import (
	"context"
	"time"

	"github.com/sharpcutlabs/booking-api/internal/audit"
	domain "github.com/sharpcutlabs/booking-api/internal/domain/booking"
	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/models"
)

type UpdateStatusInput struct {
	BookingID uint
	To        domain.Status

	ActorUserID uint
	ActorRole   string
}

type UpdateBookingStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateBookingStatus(
	repo domain.Repository,
	auditDisp *audit.Dispatcher,
) *UpdateBookingStatus {
	return &UpdateBookingStatus{
		repo:  repo,
		audit: auditDisp,
	}
}

// Execute applies a status transition under the ownership rules:
// the booking's barber may confirm, complete or cancel; the customer
// may only cancel their own booking; admins may do anything.
func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Booking, error) {

	if !in.To.Valid() {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	b, err := uc.repo.GetBookingByID(ctx, in.BookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := uc.authorize(b, in); err != nil {
		return nil, err
	}

	if err := domain.Transition(b, in.To, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: b.BranchID,
		UserID:   &in.ActorUserID,
		Action:   "booking_" + string(in.To),
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}

func (uc *UpdateBookingStatus) authorize(b *models.Booking, in UpdateStatusInput) error {
	switch in.ActorRole {
	case models.RoleAdmin:
		return nil

	case models.RoleBarber:
		if b.Barber.UserID != in.ActorUserID {
			return httperr.ErrBusiness("forbidden")
		}
		return nil

	default:
		// Customers may only cancel, and only their own booking.
		if b.UserID != in.ActorUserID || in.To != domain.StatusCancelled {
			return httperr.ErrBusiness("forbidden")
		}
		return nil
	}
}
