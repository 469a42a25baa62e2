package booking

import (
	"context"
	"time"

	"github.com/sharpcutlabs/booking-api/internal/models"
)

// Repository is the storage contract for the scheduling core. The gorm
// implementation lives in internal/infra/repository; tests inject an
// in-memory fake.
type Repository interface {
	// -------- Branch / Barber --------
	GetBranchByID(
		ctx context.Context,
		id uint,
	) (*models.Branch, error)

	GetBarberByID(
		ctx context.Context,
		id uint,
	) (*models.Barber, error)

	// GetDefaultBarber returns the first active barber of a branch.
	GetDefaultBarber(
		ctx context.Context,
		branchID uint,
	) (*models.Barber, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	// -------- Work hours --------
	GetWorkHour(
		ctx context.Context,
		barberID uint,
		dayOfWeek int,
	) (*models.WorkHour, error)

	// -------- Occupancy --------

	// ListDayIntervals returns every active-status interval held on
	// (barberID, date) across bookings AND guest bookings, ordered by
	// start. This is the unified conflict namespace.
	ListDayIntervals(
		ctx context.Context,
		barberID uint,
		date time.Time,
	) ([]Interval, error)

	// -------- Admission --------

	// CreateBooking commits the booking as a single atomic step: it
	// serializes on (barber, date), re-checks for overlapping active
	// intervals across both booking kinds, and inserts. Returns the
	// slot_unavailable business error on conflict.
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	CreateGuestBooking(
		ctx context.Context,
		g *models.GuestBooking,
	) error

	// -------- Users --------
	GetUserByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// -------- Guest identity --------
	GetOrCreateGuestUser(
		ctx context.Context,
		email string,
		name string,
		phone string,
	) (*models.User, error)

	// -------- Booking reads / state change --------
	GetBookingByID(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	GetGuestBookingByReference(
		ctx context.Context,
		reference string,
	) (*models.GuestBooking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ListBookingsForUser(
		ctx context.Context,
		userID uint,
		status string,
	) ([]models.Booking, error)

	ListBookingsForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	// -------- Reminders --------

	// ListReminderCandidates returns confirmed, not-yet-reminded
	// bookings whose calendar day falls in [dayFrom, dayTo].
	ListReminderCandidates(
		ctx context.Context,
		dayFrom time.Time,
		dayTo time.Time,
	) ([]models.Booking, error)

	// MarkReminderSent flips reminder_sent false -> true. The update is
	// conditional on the flag still being false; the bool reports
	// whether this caller won the flip.
	MarkReminderSent(
		ctx context.Context,
		bookingID uint,
	) (bool, error)

	// ClearReminderSent resets the flag so a later sweep retries a
	// booking whose notification could not be delivered.
	ClearReminderSent(
		ctx context.Context,
		bookingID uint,
	) error
}
