package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "marketplace.backend/internal/domain/errors"
	"marketplace.backend/internal/interfaces/http/middleware"
	"marketplace.backend/internal/interfaces/http/response"
	"marketplace.backend/internal/usecases"
)

// UserHandler handles account endpoints
type UserHandler struct {
	authUsecase *usecases.AuthUsecase
}

// NewUserHandler creates a new user handler
func NewUserHandler(authUsecase *usecases.AuthUsecase) *UserHandler {
	return &UserHandler{authUsecase: authUsecase}
}

// UpgradeToMerchant promotes the calling buyer to merchant
// GET /users/upgrade-to-merchant
func (h *UserHandler) UpgradeToMerchant(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}

	upgraded, err := h.authUsecase.UpgradeToMerchant(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Account upgraded to merchant",
		"role":    upgraded.Role,
	})
}

// Me returns the calling user's profile
// GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return
	}
	response.Success(c, http.StatusOK, user)
}
