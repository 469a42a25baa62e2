package models

import "time"

type Branch struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OwnerID uint `json:"owner_id"`
	Owner   User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"owner"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Address  string `gorm:"size:255" json:"address"`
	City     string `gorm:"size:100" json:"city"`
	Phone    string `gorm:"size:20" json:"phone"`
	Timezone string `gorm:"size:50" json:"timezone"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
