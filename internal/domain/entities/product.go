package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Product represents a catalog listing owned by a merchant
type Product struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Description   null.String    `json:"description,omitempty"`
	Price         float64        `json:"price"`
	StockQuantity int            `json:"stock_quantity"`
	Brand         null.String    `json:"brand,omitempty"`
	CategoryID    *uuid.UUID     `json:"category_id,omitempty"`
	SellerID      uuid.UUID      `json:"seller_id"`
	Images        []ProductImage `json:"images"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ProductImage is an ordered image attached to a product
type ProductImage struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	Position int       `json:"position"`
}

// CreateProductInput represents input for creating a product
type CreateProductInput struct {
	Name          string   `json:"name" binding:"required,min=1,max=200"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	StockQuantity int      `json:"stock_quantity" binding:"gte=0"`
	Brand         string   `json:"brand"`
	CategoryID    string   `json:"category_id"`
	Images        []string `json:"images" binding:"max=10"`
}

// UpdateProductInput represents input for updating a product
type UpdateProductInput struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	StockQuantity *int     `json:"stock_quantity"`
	Brand         *string  `json:"brand"`
}

// ProductFilter narrows catalog listings
type ProductFilter struct {
	CategoryName string
	Brand        string
	MinPrice     *float64
	MaxPrice     *float64
	Limit        int
	Offset       int
}
