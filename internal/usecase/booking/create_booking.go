package booking

import (
	"context"
	"time"

	"github.com/sharpcutlabs/booking-api/internal/audit"
	domain "github.com/sharpcutlabs/booking-api/internal/domain/booking"
	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/metrics"
	"github.com/sharpcutlabs/booking-api/internal/models"
	"github.com/sharpcutlabs/booking-api/internal/notify"
	"github.com/sharpcutlabs/booking-api/internal/timezone"
)

// ======================================================
// USE CASE — booking admission
// ======================================================

type CreateBooking struct {
	repo    domain.Repository
	mail    *notify.Dispatcher
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
}

func NewCreateBooking(
	repo domain.Repository,
	mail *notify.Dispatcher,
	auditDisp *audit.Dispatcher,
	m *metrics.Metrics,
) *CreateBooking {
	return &CreateBooking{
		repo:    repo,
		mail:    mail,
		audit:   auditDisp,
		metrics: m,
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in domain.CreateBookingInput,
) (*models.Booking, error) {

	barber, err := uc.repo.GetBarberByID(ctx, in.BarberID)
	if err != nil || !barber.IsActive {
		uc.reject("barber_not_found")
		return nil, httperr.ErrBusiness("barber_not_found")
	}

	branch, err := uc.repo.GetBranchByID(ctx, barber.BranchID)
	if err != nil {
		return nil, err
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil || !service.Active {
		uc.reject("service_not_found")
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if service.BranchID != barber.BranchID {
		uc.reject("service_not_found")
		return nil, httperr.ErrBusiness("service_not_found")
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

	// Derived, not client-supplied: end = start + service duration.
	endTime, err := domain.AddMinutes(in.StartTime, service.DurationMin)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	endMin := startMin + service.DurationMin

	if err := checkWorkWindow(ctx, uc.repo, in.BarberID, date, startMin, endMin); err != nil {
		uc.reject("outside_working_hours")
		return nil, err
	}

	b := &models.Booking{
		UserID:     in.UserID,
		BranchID:   barber.BranchID,
		BarberID:   in.BarberID,
		ServiceID:  service.ID,
		Date:       date,
		StartTime:  in.StartTime,
		EndTime:    endTime,
		StartMin:   startMin,
		EndMin:     endMin,
		Status:     string(domain.StatusPending),
		TotalPrice: service.Price,
		Notes:      in.Notes,
	}

	// Availability is re-checked inside the repository transaction;
	// whatever the caller saw from the slot grid is stale by now.
	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		if httperr.IsBusiness(err, "slot_unavailable") {
			uc.reject("slot_unavailable")
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BookingsCreated.WithLabelValues("user").Inc()
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: b.BranchID,
		UserID:   &in.UserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	// Fire-and-forget; a delivery failure never unwinds the booking.
	if user, err := uc.repo.GetUserByID(ctx, in.UserID); err == nil {
		uc.mail.DispatchConfirmation(notify.BookingMessage{
			To:          user.Email,
			Name:        user.Name,
			BarberName:  barber.User.Name,
			ServiceName: service.Name,
			Date:        in.Date,
			StartTime:   in.StartTime,
		})
	}

	return b, nil
}

// checkWorkWindow rejects admissions outside the barber's active window
// for that weekday. Shared by the authenticated and guest paths.
func checkWorkWindow(
	ctx context.Context,
	repo domain.Repository,
	barberID uint,
	date time.Time,
	startMin int,
	endMin int,
) error {

	wh, err := repo.GetWorkHour(ctx, barberID, int(date.Weekday()))
	if err != nil {
		return err
	}
	if wh == nil || !wh.Active {
		return httperr.ErrBusiness("outside_working_hours")
	}

	dayStart, err := domain.ParseHHMM(wh.StartTime)
	if err != nil {
		return httperr.ErrBusiness("outside_working_hours")
	}
	dayEnd, err := domain.ParseHHMM(wh.EndTime)
	if err != nil {
		return httperr.ErrBusiness("outside_working_hours")
	}

	if startMin < dayStart || endMin > dayEnd {
		return httperr.ErrBusiness("outside_working_hours")
	}

	return nil
}

func (uc *CreateBooking) reject(reason string) {
	if uc.metrics != nil {
		uc.metrics.BookingsRejected.WithLabelValues(reason).Inc()
	}
}
