package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:20;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"size:60;not null" json:"-"` // bcrypt hash
	ProfileImage string    `gorm:"size:100;not null;default:'default.jpg'" json:"profile_image"`
	Bio          string    `gorm:"type:text" json:"bio"`
	Location     string    `gorm:"size:100" json:"location"`
	CreatedAt    time.Time `json:"created_at"`
	// No DeletedAt, accounts are hard deleted and the database cascades.
}
