package repositories

import (
	"context"

	"github.com/google/uuid"
	"marketplace.backend/internal/domain/entities"
)

// ProductRepository defines catalog data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entities.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error)
	List(ctx context.Context, filter entities.ProductFilter) ([]*entities.Product, error)
	Update(ctx context.Context, product *entities.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// NormalizeImagePositions rewrites a product's image positions to a
	// dense 1..n sequence ordered by their current position.
	NormalizeImagePositions(ctx context.Context, productID uuid.UUID) error
}

// CategoryRepository defines category reads
type CategoryRepository interface {
	List(ctx context.Context) ([]*entities.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Category, error)
}

// CurrencyRepository defines currency reads
type CurrencyRepository interface {
	List(ctx context.Context) ([]*entities.Currency, error)
}
