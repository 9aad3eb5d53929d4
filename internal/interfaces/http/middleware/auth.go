package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"marketplace.backend/internal/domain/entities"
	domainerrors "marketplace.backend/internal/domain/errors"
	"marketplace.backend/internal/domain/repositories"
	"marketplace.backend/internal/interfaces/http/response"
	"marketplace.backend/internal/usecases"
	"marketplace.backend/pkg/jwt"
	"marketplace.backend/pkg/metrics"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// CurrentUserKey is the gin context key holding the resolved user
	CurrentUserKey = "currentUser"
)

// AuthMiddleware verifies the bearer token under the access purpose
// and resolves the full user row, so downstream handlers see current
// role and activation state rather than whatever the token was issued
// with.
func AuthMiddleware(tokens *jwt.TokenService, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			abortUnauthorized(c, "missing_header", "Authorization header is required")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "bad_format", "Authorization header must be: Bearer <token>")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := tokens.Verify(tokenString, jwt.PurposeAccess)
		if err != nil {
			if err == jwt.ErrExpiredToken {
				abortUnauthorized(c, "expired_token", "Token has expired")
				return
			}
			abortUnauthorized(c, "invalid_token", "Invalid token")
			return
		}

		user, err := users.GetByEmail(c.Request.Context(), claims.Email())
		if err != nil {
			abortUnauthorized(c, "unknown_subject", "Invalid token")
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated user holds one
// of the given roles. Must run after AuthMiddleware.
func RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortUnauthorized(c, "no_user", "Authentication required")
			return
		}
		if err := usecases.Authorize(user, roles...); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware
func CurrentUser(c *gin.Context) (*entities.User, bool) {
	v, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*entities.User)
	return user, ok
}

func abortUnauthorized(c *gin.Context, reason, message string) {
	metrics.RecordAuthFailure(reason)
	response.Error(c, domainerrors.Unauthorized(message))
	c.Abort()
}
