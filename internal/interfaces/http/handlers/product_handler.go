package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"marketplace.backend/internal/domain/entities"
	domainerrors "marketplace.backend/internal/domain/errors"
	"marketplace.backend/internal/interfaces/http/middleware"
	"marketplace.backend/internal/interfaces/http/response"
	"marketplace.backend/internal/usecases"
	"marketplace.backend/pkg/utils"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	productUsecase *usecases.ProductUsecase
}

// NewProductHandler creates a new product handler
func NewProductHandler(productUsecase *usecases.ProductUsecase) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase}
}

type listQuery struct {
	utils.ListParams
	Category string   `form:"category"`
	Brand    string   `form:"brand"`
	MinPrice *float64 `form:"min_price"`
	MaxPrice *float64 `form:"max_price"`
}

// List returns catalog listings matching the query
// GET /products/
func (h *ProductHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, domainerrors.BadRequest("invalid query parameters"))
		return
	}
	if err := q.Normalize(); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	products, err := h.productUsecase.List(c.Request.Context(), entities.ProductFilter{
		CategoryName: q.Category,
		Brand:        q.Brand,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		Limit:        q.Limit,
		Offset:       q.Offset,
	})
	if err != nil {
		if errors.Is(err, utils.ErrNegativePrice) || errors.Is(err, utils.ErrInvertedPriceMin) {
			response.Error(c, domainerrors.BadRequest(err.Error()))
			return
		}
		response.Error(c, err)
		return
	}

	if len(products) == 0 {
		response.Error(c, domainerrors.NotFound("no products matched the filter"))
		return
	}
	response.Success(c, http.StatusOK, products)
}

// Get returns one product
// GET /products/:id/
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid product id"))
		return
	}

	product, err := h.productUsecase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}

// Edit returns the owner-editable view of a listing
// GET /products/:id/edit/
func (h *ProductHandler) Edit(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid product id"))
		return
	}

	product, err := h.productUsecase.GetForEdit(c.Request.Context(), user, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}

// Create adds a listing for the calling merchant
// POST /products/new/
func (h *ProductHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var input entities.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	product, err := h.productUsecase.Create(c.Request.Context(), user, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, product)
}

// Update modifies a listing
// PUT /products/:id/
func (h *ProductHandler) Update(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid product id"))
		return
	}

	var input entities.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	product, err := h.productUsecase.Update(c.Request.Context(), user, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}

// Delete removes a listing
// DELETE /products/:id/
func (h *ProductHandler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid product id"))
		return
	}

	if err := h.productUsecase.Delete(c.Request.Context(), user, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Product deleted"})
}

// NormalizeImages repairs a product's image ordering
// POST /admin/products/:id/images/normalize
func (h *ProductHandler) NormalizeImages(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid product id"))
		return
	}

	if err := h.productUsecase.NormalizeImages(c.Request.Context(), user, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Image positions normalized"})
}
