package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"marketplace.backend/internal/domain/entities"
	domainerrors "marketplace.backend/internal/domain/errors"
	"marketplace.backend/internal/infrastructure/models"
)

// CategoryRepository implements category reads
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List lists all categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]*entities.Category, error) {
	var categoryModels []models.Category
	if err := GetDB(ctx, r.db).WithContext(ctx).Order("name ASC").Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]*entities.Category, 0, len(categoryModels))
	for _, m := range categoryModels {
		categories = append(categories, &entities.Category{ID: m.ID, Name: m.Name})
	}
	return categories, nil
}

// GetByID gets a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Category, error) {
	var m models.Category
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Category{ID: m.ID, Name: m.Name}, nil
}

// CurrencyRepository implements currency reads
type CurrencyRepository struct {
	db *gorm.DB
}

// NewCurrencyRepository creates a new currency repository
func NewCurrencyRepository(db *gorm.DB) *CurrencyRepository {
	return &CurrencyRepository{db: db}
}

// List lists all currencies ordered by code
func (r *CurrencyRepository) List(ctx context.Context) ([]*entities.Currency, error) {
	var currencyModels []models.Currency
	if err := GetDB(ctx, r.db).WithContext(ctx).Order("code ASC").Find(&currencyModels).Error; err != nil {
		return nil, err
	}

	currencies := make([]*entities.Currency, 0, len(currencyModels))
	for _, m := range currencyModels {
		currencies = append(currencies, &entities.Currency{ID: m.ID, Code: m.Code, Name: m.Name, Symbol: m.Symbol})
	}
	return currencies, nil
}
