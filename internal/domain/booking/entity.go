package booking

import "time"

type AvailabilityInput struct {
	BarberID    uint
	Date        time.Time
	SlotMinutes int
}

type CreateBookingInput struct {
	UserID    uint
	BarberID  uint
	ServiceID uint

	// "2006-01-02" and "15:04" in the branch timezone.
	Date      string
	StartTime string
	Notes     string
}

type CreateGuestBookingInput struct {
	Name  string
	Email string
	Phone string

	BranchID  uint
	BarberID  uint // optional; 0 means "any barber of the branch"
	ServiceID uint

	Date      string
	StartTime string
	Notes     string
}
