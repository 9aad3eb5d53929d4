package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"marketplace.backend/internal/domain/entities"
	domainerrors "marketplace.backend/internal/domain/errors"
	"marketplace.backend/internal/infrastructure/models"
)

// ProductRepository implements catalog data operations
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a product and its images in insertion order
func (r *ProductRepository) Create(ctx context.Context, product *entities.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	m := &models.Product{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description.Ptr(),
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		Brand:         product.Brand.Ptr(),
		CategoryID:    product.CategoryID,
		SellerID:      product.SellerID,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	for i, img := range product.Images {
		id := img.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		m.Images = append(m.Images, models.ProductImage{
			ID:        id,
			ProductID: product.ID,
			URL:       img.URL,
			Position:  i + 1,
		})
	}

	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByID gets a product with its images ordered by position
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	var m models.Product
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return productToEntity(&m), nil
}

// List lists products matching the filter
func (r *ProductRepository) List(ctx context.Context, filter entities.ProductFilter) ([]*entities.Product, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Product{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC")

	if filter.CategoryName != "" {
		query = query.Where("category_id IN (?)",
			GetDB(ctx, r.db).Model(&models.Category{}).Select("id").Where("name = ?", filter.CategoryName))
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var productModels []models.Product
	if err := query.Find(&productModels).Error; err != nil {
		return nil, err
	}

	products := make([]*entities.Product, 0, len(productModels))
	for i := range productModels {
		products = append(products, productToEntity(&productModels[i]))
	}
	return products, nil
}

// Update updates mutable product fields
func (r *ProductRepository) Update(ctx context.Context, product *entities.Product) error {
	updates := map[string]interface{}{
		"name":           product.Name,
		"description":    product.Description.Ptr(),
		"price":          product.Price,
		"stock_quantity": product.StockQuantity,
		"brand":          product.Brand.Ptr(),
		"updated_at":     time.Now(),
	}

	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Delete soft deletes a product
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// NormalizeImagePositions rewrites image positions to a dense 1..n
// sequence ordered by current position
func (r *ProductRepository) NormalizeImagePositions(ctx context.Context, productID uuid.UUID) error {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var images []models.ProductImage
	if err := db.Where("product_id = ?", productID).Order("position ASC, created_at ASC").Find(&images).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return domainerrors.ErrNotFound
	}

	for i := range images {
		want := i + 1
		if images[i].Position == want {
			continue
		}
		if err := db.Model(&models.ProductImage{}).Where("id = ?", images[i].ID).Update("position", want).Error; err != nil {
			return err
		}
	}
	return nil
}

func productToEntity(m *models.Product) *entities.Product {
	p := &entities.Product{
		ID:            m.ID,
		Name:          m.Name,
		Description:   null.StringFromPtr(m.Description),
		Price:         m.Price,
		StockQuantity: m.StockQuantity,
		Brand:         null.StringFromPtr(m.Brand),
		CategoryID:    m.CategoryID,
		SellerID:      m.SellerID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for _, img := range m.Images {
		p.Images = append(p.Images, entities.ProductImage{
			ID:       img.ID,
			URL:      img.URL,
			Position: img.Position,
		})
	}
	return p
}
