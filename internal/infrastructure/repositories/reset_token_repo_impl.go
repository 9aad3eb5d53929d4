package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	domainerrors "marketplace.backend/internal/domain/errors"
	"marketplace.backend/internal/infrastructure/models"
)

// PasswordResetTokenRepository implements single-use reset token
// persistence over the relational store.
type PasswordResetTokenRepository struct {
	db *gorm.DB
}

// NewPasswordResetTokenRepository creates a new reset token repository
func NewPasswordResetTokenRepository(db *gorm.DB) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{db: db}
}

// Record persists a new unused token row bound to email
func (r *PasswordResetTokenRepository) Record(ctx context.Context, token, email string) error {
	m := &models.PasswordResetToken{
		Token:     token,
		Email:     email,
		IsUsed:    false,
		CreatedAt: time.Now(),
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// Consume marks the token used and returns the bound email. The update
// is a compare-and-set on is_used, so under concurrent calls with the
// same token exactly one caller wins; the rest see ErrResetTokenUsed
// (or ErrNotFound if the row never existed).
func (r *PasswordResetTokenRepository) Consume(ctx context.Context, token string) (string, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	result := db.Model(&models.PasswordResetToken{}).
		Where("token = ? AND is_used = ?", token, false).
		Update("is_used", true)
	if result.Error != nil {
		return "", result.Error
	}

	if result.RowsAffected == 0 {
		var m models.PasswordResetToken
		err := db.Where("token = ?", token).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domainerrors.ErrNotFound
		}
		if err != nil {
			return "", err
		}
		return "", domainerrors.ErrResetTokenUsed
	}

	var m models.PasswordResetToken
	if err := db.Where("token = ?", token).First(&m).Error; err != nil {
		return "", err
	}
	return m.Email, nil
}

// DeleteDead removes used tokens and tokens created before cutoff
func (r *PasswordResetTokenRepository) DeleteDead(ctx context.Context, cutoff time.Time) (int64, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("is_used = ? OR created_at < ?", true, cutoff).
		Delete(&models.PasswordResetToken{})
	return result.RowsAffected, result.Error
}
