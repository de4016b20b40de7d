package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Bio          string    `gorm:"not null;default:''" json:"bio"`
	AvatarURL    string    `gorm:"not null;default:''" json:"avatar_url"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewID returns a random identifier for a new row.
func NewID() string {
	return uuid.NewString()
}
