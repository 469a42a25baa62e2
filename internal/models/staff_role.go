package models

import "time"

const (
	StaffRoleManager = "manager"
	StaffRoleStaff   = "staff"
)

type StaffRole struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex:idx_staff_roles_user_branch" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	BranchID uint   `gorm:"uniqueIndex:idx_staff_roles_user_branch" json:"branch_id"`
	Branch   Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"branch"`

	Role string `gorm:"size:20;default:'staff'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
