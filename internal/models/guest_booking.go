package models

import "time"

// GuestBooking is an unauthenticated reservation keyed by contact info.
// It occupies the same (barber, date, interval) axis as Booking: both
// tables are consulted for conflicts and both carry the exclusion
// constraint over the interval range.
type GuestBooking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Reference string `gorm:"size:36;uniqueIndex;not null" json:"reference"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100;not null" json:"email"`
	Phone string `gorm:"size:20;not null" json:"phone"`

	BranchID uint   `json:"branch_id"`
	Branch   Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"branch"`

	BarberID uint   `gorm:"index:idx_guest_bookings_barber_date" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	Date time.Time `gorm:"index:idx_guest_bookings_barber_date" json:"date"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	StartMin  int    `json:"-"`
	EndMin    int    `json:"-"`

	// Guest bookings skip the pending step.
	Status string `gorm:"size:20;default:'confirmed'" json:"status"`

	TotalPrice   float64 `json:"total_price"`
	Notes        string  `gorm:"size:255" json:"notes"`
	ReminderSent bool    `gorm:"default:false" json:"reminder_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
