package usecases

import (
	"marketplace.backend/internal/domain/entities"
	domainerrors "marketplace.backend/internal/domain/errors"
)

// Authorize checks that the user holds one of the allowed roles. It
// is a pure predicate: callers decide how to surface the error.
func Authorize(user *entities.User, roles ...entities.UserRole) error {
	if user == nil {
		return domainerrors.ErrUnauthorized
	}
	for _, role := range roles {
		if user.Role == role {
			return nil
		}
	}
	return domainerrors.ErrForbidden
}
