package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name          string    `gorm:"type:varchar(200);not null"`
	Description   *string   `gorm:"type:text"`
	Price         float64   `gorm:"not null"`
	StockQuantity int       `gorm:"not null;default:0"`
	Brand         *string   `gorm:"type:varchar(100)"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index"`
	SellerID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`

	// Associations
	Images []ProductImage `gorm:"foreignKey:ProductID"`
}

type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:text;not null"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time
}
