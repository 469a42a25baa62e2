package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`

	BranchID uint   `json:"branch_id"`
	Branch   Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"branch"`

	BarberID uint   `gorm:"index:idx_bookings_barber_date" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	// Calendar day at midnight in the branch timezone.
	Date time.Time `gorm:"index:idx_bookings_barber_date" json:"date"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	// Minute offsets from midnight, kept in sync with StartTime/EndTime.
	// They back the no-overlap exclusion constraint (see db migrations).
	StartMin int `json:"-"`
	EndMin   int `json:"-"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	// Snapshot of the service price at admission time.
	TotalPrice float64 `json:"total_price"`

	Notes        string `gorm:"size:255" json:"notes"`
	ReminderSent bool   `gorm:"default:false" json:"reminder_sent"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
