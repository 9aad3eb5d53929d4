package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"marketplace.backend/internal/interfaces/http/response"
	"marketplace.backend/internal/usecases"
)

// MiscHandler serves the small read-only endpoints
type MiscHandler struct {
	catalogUsecase *usecases.CatalogUsecase
}

// NewMiscHandler creates a new misc handler
func NewMiscHandler(catalogUsecase *usecases.CatalogUsecase) *MiscHandler {
	return &MiscHandler{catalogUsecase: catalogUsecase}
}

// Categories lists all categories
// GET /categories/
func (h *MiscHandler) Categories(c *gin.Context) {
	categories, err := h.catalogUsecase.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

// Currencies lists all supported currencies
// GET /currencies/
func (h *MiscHandler) Currencies(c *gin.Context) {
	currencies, err := h.catalogUsecase.Currencies(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, currencies)
}

// Health reports process liveness
// GET /health
func (h *MiscHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
