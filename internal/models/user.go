package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	// Empty for guest accounts; password login is refused for them.
	PasswordHash string `gorm:"size:255" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'customer'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoleAdmin    = "admin"
	RoleBarber   = "barber"
	RoleCustomer = "customer"
)

func (u *User) IsGuest() bool {
	return u.PasswordHash == ""
}
