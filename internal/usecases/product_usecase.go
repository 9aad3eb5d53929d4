package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"marketplace.backend/internal/domain/entities"
	domainerrors "marketplace.backend/internal/domain/errors"
	"marketplace.backend/internal/domain/repositories"
	"marketplace.backend/pkg/utils"
)

// ProductUsecase handles catalog business logic
type ProductUsecase struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewProductUsecase creates a new product usecase
func NewProductUsecase(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// List returns catalog listings matching the filter
func (u *ProductUsecase) List(ctx context.Context, filter entities.ProductFilter) ([]*entities.Product, error) {
	if err := validatePriceWindow(filter.MinPrice, filter.MaxPrice); err != nil {
		return nil, err
	}
	return u.productRepo.List(ctx, filter)
}

// Get returns a single product by id
func (u *ProductUsecase) Get(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	return u.productRepo.GetByID(ctx, id)
}

// GetForEdit returns a product for its edit view. Unlike Get, only the
// owning merchant or an admin may read it.
func (u *ProductUsecase) GetForEdit(ctx context.Context, caller *entities.User, id uuid.UUID) (*entities.Product, error) {
	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwnerOrAdmin(caller, product.SellerID); err != nil {
		return nil, err
	}
	return product, nil
}

// Create adds a listing owned by the calling merchant
func (u *ProductUsecase) Create(ctx context.Context, seller *entities.User, input *entities.CreateProductInput) (*entities.Product, error) {
	if err := Authorize(seller, entities.UserRoleMerchant); err != nil {
		return nil, err
	}

	product := &entities.Product{
		Name:          input.Name,
		Description:   optionalString(input.Description),
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		Brand:         optionalString(input.Brand),
		SellerID:      seller.ID,
	}

	if input.CategoryID != "" {
		categoryID, err := uuid.Parse(input.CategoryID)
		if err != nil {
			return nil, domainerrors.ErrInvalidInput
		}
		if _, err := u.categoryRepo.GetByID(ctx, categoryID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.ErrInvalidInput
			}
			return nil, err
		}
		product.CategoryID = &categoryID
	}

	for _, url := range input.Images {
		product.Images = append(product.Images, entities.ProductImage{URL: url})
	}

	if err := u.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update modifies a listing. Only the owning merchant or an admin may
// change it.
func (u *ProductUsecase) Update(ctx context.Context, caller *entities.User, id uuid.UUID, input *entities.UpdateProductInput) (*entities.Product, error) {
	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwnerOrAdmin(caller, product.SellerID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = null.StringFrom(*input.Description)
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, domainerrors.ErrInvalidInput
		}
		product.Price = *input.Price
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, domainerrors.ErrInvalidInput
		}
		product.StockQuantity = *input.StockQuantity
	}
	if input.Brand != nil {
		product.Brand = null.StringFrom(*input.Brand)
	}

	if err := u.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a listing. Only the owning merchant or an admin may
// remove it.
func (u *ProductUsecase) Delete(ctx context.Context, caller *entities.User, id uuid.UUID) error {
	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwnerOrAdmin(caller, product.SellerID); err != nil {
		return err
	}
	return u.productRepo.Delete(ctx, id)
}

// NormalizeImages rewrites a product's image positions to a dense
// sequence. Admin-only maintenance operation.
func (u *ProductUsecase) NormalizeImages(ctx context.Context, caller *entities.User, id uuid.UUID) error {
	if err := Authorize(caller, entities.UserRoleAdmin); err != nil {
		return err
	}
	return u.productRepo.NormalizeImagePositions(ctx, id)
}

func authorizeOwnerOrAdmin(caller *entities.User, ownerID uuid.UUID) error {
	if caller == nil {
		return domainerrors.ErrUnauthorized
	}
	if caller.Role == entities.UserRoleAdmin || caller.ID == ownerID {
		return nil
	}
	return domainerrors.ErrForbidden
}

func validatePriceWindow(min, max *float64) error {
	if min != nil && *min < 0 || max != nil && *max < 0 {
		return utils.ErrNegativePrice
	}
	if min != nil && max != nil && *min > *max {
		return utils.ErrInvertedPriceMin
	}
	return nil
}
