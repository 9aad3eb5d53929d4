package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time
}

type Currency struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Code   string    `gorm:"type:varchar(8);uniqueIndex;not null"`
	Name   string    `gorm:"type:varchar(50);not null"`
	Symbol string    `gorm:"type:varchar(8);not null"`
}
