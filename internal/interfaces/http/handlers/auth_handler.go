package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"marketplace.backend/internal/domain/entities"
	domainerrors "marketplace.backend/internal/domain/errors"
	"marketplace.backend/internal/interfaces/http/middleware"
	"marketplace.backend/internal/interfaces/http/response"
	"marketplace.backend/internal/usecases"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase *usecases.AuthUsecase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase *usecases.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Signup handles account creation
// POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var input entities.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	user, err := h.authUsecase.Signup(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"email": user.Email})
}

// Login handles email/password login
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	tokens, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, tokens)
}

// Refresh exchanges a refresh token for a new access token
// POST /auth/refresh-token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input entities.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	tokens, err := h.authUsecase.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		// a refresh failure is an authentication failure, not a bad request
		if err == domainerrors.ErrInvalidToken || err == domainerrors.ErrTokenExpired {
			response.Error(c, domainerrors.Unauthorized("invalid or expired refresh token"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, tokens)
}

// VerifyEmail activates the account named by the token in the link
// GET /auth/verify-email?token=
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, domainerrors.BadRequest("token query parameter is required"))
		return
	}

	already, err := h.authUsecase.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Email verified successfully"
	if already {
		message = "Email already verified"
	}
	response.Success(c, http.StatusOK, gin.H{
		"message":      message,
		"redirect_url": "/login",
	})
}

// RequestVerificationLink re-sends the verification mail
// POST /auth/request-verification-link
func (h *AuthHandler) RequestVerificationLink(c *gin.Context) {
	var input entities.ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	if err := h.authUsecase.RequestVerificationLink(c.Request.Context(), input.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Verification link sent"})
}

// ForgotPassword starts the password reset flow
// POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input entities.ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	// logged-in callers are refused, so pass any bearer token along
	bearer := ""
	if header := c.GetHeader(middleware.AuthorizationHeader); strings.HasPrefix(header, middleware.BearerPrefix) {
		bearer = strings.TrimPrefix(header, middleware.BearerPrefix)
	}

	if err := h.authUsecase.ForgotPassword(c.Request.Context(), input.Email, bearer); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password reset link sent"})
}

// ResetPassword finalizes the password reset flow
// POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input entities.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	if err := h.authUsecase.ResetPassword(c.Request.Context(), input.Token, input.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password updated successfully"})
}
