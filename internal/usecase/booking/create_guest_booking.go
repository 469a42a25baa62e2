package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sharpcutlabs/booking-api/internal/audit"
	domain "github.com/sharpcutlabs/booking-api/internal/domain/booking"
	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/metrics"
	"github.com/sharpcutlabs/booking-api/internal/models"
	"github.com/sharpcutlabs/booking-api/internal/notify"
	"github.com/sharpcutlabs/booking-api/internal/timezone"
)

// ======================================================
// USE CASE — guest admission
// ======================================================
//
// Same interval semantics as the authenticated path: guest bookings
// live in the unified conflict namespace and go through the same
// guarded insert. They skip the pending step and a passwordless guest
// user record is upserted for the contact.

type CreateGuestBooking struct {
	repo    domain.Repository
	mail    *notify.Dispatcher
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
}

func NewCreateGuestBooking(
	repo domain.Repository,
	mail *notify.Dispatcher,
	auditDisp *audit.Dispatcher,
	m *metrics.Metrics,
) *CreateGuestBooking {
	return &CreateGuestBooking{
		repo:    repo,
		mail:    mail,
		audit:   auditDisp,
		metrics: m,
	}
}

func (uc *CreateGuestBooking) Execute(
	ctx context.Context,
	in domain.CreateGuestBookingInput,
) (*models.GuestBooking, error) {

	branch, err := uc.repo.GetBranchByID(ctx, in.BranchID)
	if err != nil || !branch.IsActive {
		return nil, httperr.ErrBusiness("branch_not_found")
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil || !service.Active || service.BranchID != in.BranchID {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	var barber *models.Barber
	if in.BarberID != 0 {
		barber, err = uc.repo.GetBarberByID(ctx, in.BarberID)
		if err != nil || !barber.IsActive || barber.BranchID != in.BranchID {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
	} else {
		barber, err = uc.repo.GetDefaultBarber(ctx, in.BranchID)
		if err != nil {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
	}

	loc := timezone.Location(branch.Timezone)
	date, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	startMin, err := domain.ParseHHMM(in.StartTime)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	endTime, err := domain.AddMinutes(in.StartTime, service.DurationMin)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	endMin := startMin + service.DurationMin

	if err := checkWorkWindow(ctx, uc.repo, barber.ID, date, startMin, endMin); err != nil {
		if uc.metrics != nil {
			uc.metrics.BookingsRejected.WithLabelValues("outside_working_hours").Inc()
		}
		return nil, err
	}

	if _, err := uc.repo.GetOrCreateGuestUser(ctx, in.Email, in.Name, in.Phone); err != nil {
		return nil, err
	}

	g := &models.GuestBooking{
		Reference:  uuid.NewString(),
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		BranchID:   in.BranchID,
		BarberID:   barber.ID,
		ServiceID:  service.ID,
		Date:       date,
		StartTime:  in.StartTime,
		EndTime:    endTime,
		StartMin:   startMin,
		EndMin:     endMin,
		Status:     string(domain.StatusConfirmed),
		TotalPrice: service.Price,
		Notes:      in.Notes,
	}

	if err := uc.repo.CreateGuestBooking(ctx, g); err != nil {
		if httperr.IsBusiness(err, "slot_unavailable") && uc.metrics != nil {
			uc.metrics.BookingsRejected.WithLabelValues("slot_unavailable").Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BookingsCreated.WithLabelValues("guest").Inc()
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: in.BranchID,
		Action:   "guest_booking_created",
		Entity:   "guest_booking",
		EntityID: &g.ID,
	})

	uc.mail.DispatchConfirmation(notify.BookingMessage{
		To:          in.Email,
		Name:        in.Name,
		BarberName:  barber.User.Name,
		ServiceName: service.Name,
		Date:        in.Date,
		StartTime:   in.StartTime,
	})

	return g, nil
}
