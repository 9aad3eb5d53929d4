package models

import (
	"time"
)

// PasswordResetToken is a single-use server-side record for an
// outstanding reset request. The signed token string is the key; the
// row only ever transitions is_used false -> true, exactly once.
type PasswordResetToken struct {
	Token     string `gorm:"type:varchar(512);primaryKey"`
	Email     string `gorm:"type:varchar(255);not null;index"`
	IsUsed    bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}
