package models

import "time"

// WorkHour is the recurring weekly window a barber accepts bookings in.
// One row per (barber, weekday); writes go through an upsert on that key.
type WorkHour struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint `gorm:"uniqueIndex:idx_work_hours_barber_day" json:"barber_id"`

	// 0 = Sunday .. 6 = Saturday
	DayOfWeek int `gorm:"uniqueIndex:idx_work_hours_barber_day" json:"day_of_week"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Active    bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
