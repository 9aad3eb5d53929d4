package entities

import "github.com/google/uuid"

// Category groups products
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Currency is a supported pricing currency
type Currency struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Name   string    `json:"name"`
	Symbol string    `json:"symbol"`
}
