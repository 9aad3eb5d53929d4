package utils

import "errors"

const (
	// DefaultListLimit is used when no limit is supplied
	DefaultListLimit = 10
	// MaxListLimit caps a single page of catalog results
	MaxListLimit = 100
)

var (
	ErrLimitOutOfRange  = errors.New("limit must be between 1 and 100")
	ErrNegativeOffset   = errors.New("offset must be 0 or greater")
	ErrNegativePrice    = errors.New("price filters must be non-negative")
	ErrInvertedPriceMin = errors.New("min price cannot exceed max price")
)

// ListParams holds limit/offset pagination for catalog listings
type ListParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// Normalize applies defaults and validates the window
func (p *ListParams) Normalize() error {
	if p.Limit == 0 {
		p.Limit = DefaultListLimit
	}
	if p.Limit < 1 || p.Limit > MaxListLimit {
		return ErrLimitOutOfRange
	}
	if p.Offset < 0 {
		return ErrNegativeOffset
	}
	return nil
}
