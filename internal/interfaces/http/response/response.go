package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	domainerrors "marketplace.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// sentinelStatus maps domain sentinels to HTTP statuses. Conflicts
// surface as 400, not 409; mail delivery problems as 503.
var sentinelStatus = []struct {
	err     error
	status  int
	message string
}{
	{domainerrors.ErrNotFound, http.StatusNotFound, "resource not found"},
	{domainerrors.ErrAlreadyExists, http.StatusBadRequest, "resource already exists"},
	{domainerrors.ErrInvalidInput, http.StatusBadRequest, "invalid input"},
	{domainerrors.ErrAlreadyVerified, http.StatusBadRequest, "email already verified"},
	{domainerrors.ErrSamePassword, http.StatusBadRequest, "new password must differ from the current password"},
	{domainerrors.ErrWeakPassword, http.StatusBadRequest, "password does not meet the minimum policy"},
	{domainerrors.ErrResetTokenUsed, http.StatusBadRequest, "reset token already used"},
	{domainerrors.ErrTokenExpired, http.StatusBadRequest, "token has expired"},
	{domainerrors.ErrInvalidToken, http.StatusBadRequest, "invalid token"},
	{domainerrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
	{domainerrors.ErrUnauthorized, http.StatusUnauthorized, "authentication required"},
	{domainerrors.ErrForbidden, http.StatusForbidden, "insufficient permissions"},
	{domainerrors.ErrAlreadyAuthenticated, http.StatusForbidden, "already authenticated"},
	{domainerrors.ErrTooManyRequests, http.StatusTooManyRequests, "too many requests, try again later"},
	{domainerrors.ErrMailDelivery, http.StatusServiceUnavailable, "email delivery failed, try again later"},
}

// Error sends an error response shaped as {"detail": "..."}. Unknown
// errors become a bare 500 so internals never leak to clients.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{"detail": appErr.Message})
		return
	}

	for _, m := range sentinelStatus {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"detail": m.message})
			return
		}
	}

	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}

// FieldError describes one failed binding constraint
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError sends a 422 with per-field details for binding
// failures.
func ValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"detail": "Validation Error",
			"errors": []FieldError{{Field: "body", Message: err.Error()}},
		})
		return
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fieldMessage(fe),
		})
	}

	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"detail": "Validation Error",
		"errors": fields,
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be " + fe.Param() + " or greater"
	default:
		return "failed on the '" + fe.Tag() + "' constraint"
	}
}
