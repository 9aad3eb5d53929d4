package usecases

import (
	"context"

	"marketplace.backend/internal/domain/entities"
	"marketplace.backend/internal/domain/repositories"
)

// CatalogUsecase serves the plain category and currency reads
type CatalogUsecase struct {
	categoryRepo repositories.CategoryRepository
	currencyRepo repositories.CurrencyRepository
}

// NewCatalogUsecase creates a new catalog usecase
func NewCatalogUsecase(categoryRepo repositories.CategoryRepository, currencyRepo repositories.CurrencyRepository) *CatalogUsecase {
	return &CatalogUsecase{categoryRepo: categoryRepo, currencyRepo: currencyRepo}
}

// Categories lists all categories
func (u *CatalogUsecase) Categories(ctx context.Context) ([]*entities.Category, error) {
	return u.categoryRepo.List(ctx)
}

// Currencies lists all supported currencies
func (u *CatalogUsecase) Currencies(ctx context.Context) ([]*entities.Currency, error) {
	return u.currencyRepo.List(ctx)
}
