package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"marketplace.backend/internal/domain/entities"
	domainerrors "marketplace.backend/internal/domain/errors"
	"marketplace.backend/internal/domain/repositories"
	"marketplace.backend/pkg/crypto"
	"marketplace.backend/pkg/jwt"
	"marketplace.backend/pkg/logger"
	"marketplace.backend/pkg/mailer"
	"marketplace.backend/pkg/redis"
)

// verificationThrottleTTL limits resend requests to one per address
// per window.
const verificationThrottleTTL = time.Minute

// AuthUsecase handles signup, login and credential lifecycle logic
type AuthUsecase struct {
	userRepo          repositories.UserRepository
	resetTokens       repositories.PasswordResetTokenRepository
	uow               repositories.UnitOfWork
	tokens            *jwt.TokenService
	mail              mailer.Sender
	baseURL           string
	minPasswordLength int
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	resetTokens repositories.PasswordResetTokenRepository,
	uow repositories.UnitOfWork,
	tokens *jwt.TokenService,
	mail mailer.Sender,
	baseURL string,
	minPasswordLength int,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:          userRepo,
		resetTokens:       resetTokens,
		uow:               uow,
		tokens:            tokens,
		mail:              mail,
		baseURL:           baseURL,
		minPasswordLength: minPasswordLength,
	}
}

// Signup registers a new buyer account and sends the verification
// link. The user row and the outbound mail succeed or fail together:
// a delivery failure rolls the row back so no unverifiable account is
// left behind.
func (u *AuthUsecase) Signup(ctx context.Context, input *entities.SignupInput) (*entities.User, error) {
	if err := crypto.ValidatePasswordStrength(input.Password, u.minPasswordLength); err != nil {
		return nil, domainerrors.ErrWeakPassword
	}

	if _, err := u.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domainerrors.ErrAlreadyExists
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	if _, err := u.userRepo.GetByPhone(ctx, input.Phone); err == nil {
		return nil, domainerrors.ErrAlreadyExists
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        input.Email,
		Phone:        input.Phone,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: passwordHash,
		Role:         entities.UserRoleBuyer,
		IsActive:     false,
		Address:      optionalString(input.Address),
		City:         optionalString(input.City),
		Country:      optionalString(input.Country),
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		return u.sendVerificationMail(txCtx, user.Email)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// VerifyEmail activates the account bound to a verification token.
// Verifying an already-active account is a no-op; the returned flag
// tells the caller which case it was.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, token string) (alreadyVerified bool, err error) {
	claims, err := u.tokens.Verify(token, jwt.PurposeVerification)
	if err != nil {
		return false, mapTokenError(err)
	}

	user, err := u.userRepo.GetByEmail(ctx, claims.Email())
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return false, domainerrors.ErrInvalidToken
		}
		return false, err
	}

	if user.IsActive {
		return true, nil
	}

	return false, u.userRepo.SetActive(ctx, user.ID)
}

// RequestVerificationLink re-sends the verification mail for an
// unverified account, at most once per address per throttle window.
func (u *AuthUsecase) RequestVerificationLink(ctx context.Context, email string) error {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsActive {
		return domainerrors.ErrAlreadyVerified
	}

	ok, err := redis.SetNX(ctx, "verification_throttle:"+email, "1", verificationThrottleTTL)
	if err != nil {
		logger.Error(ctx, "verification throttle check failed", zap.Error(err))
		return err
	}
	if !ok {
		return domainerrors.ErrTooManyRequests
	}

	return u.sendVerificationMail(ctx, email)
}

// Login authenticates by email and password. Unknown email and wrong
// password are indistinguishable to the caller.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.TokenResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Identifier())
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	return u.issueTokenPair(user)
}

// Refresh exchanges a valid refresh token for a fresh access token.
// The refresh token is returned unchanged; there is no rotation.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*entities.TokenResponse, error) {
	claims, err := u.tokens.Verify(refreshToken, jwt.PurposeRefresh)
	if err != nil {
		return nil, mapTokenError(err)
	}

	user, err := u.userRepo.GetByEmail(ctx, claims.Email())
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidToken
		}
		return nil, err
	}

	accessToken, err := u.tokens.IssueAccess(user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &entities.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// ForgotPassword issues a single-use reset token and mails it. A
// caller presenting a valid access token is already logged in and is
// refused. The token row and the mail commit or roll back together.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, email, bearerToken string) error {
	if bearerToken != "" {
		if _, err := u.tokens.Verify(bearerToken, jwt.PurposeAccess); err == nil {
			return domainerrors.ErrAlreadyAuthenticated
		}
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		token, err := u.tokens.IssueReset(user.Email)
		if err != nil {
			return err
		}
		if err := u.resetTokens.Record(txCtx, token, user.Email); err != nil {
			return err
		}

		body := "Use the link below to reset your password. The link is valid once.\n\n" +
			u.baseURL + "/reset-password?token=" + token
		if err := u.mail.Send(txCtx, user.Email, "Reset your password", body); err != nil {
			logger.Error(txCtx, "reset mail delivery failed", zap.Error(err), zap.String("email", user.Email))
			return domainerrors.ErrMailDelivery
		}
		return nil
	})
}

// ResetPassword consumes a reset token and writes the new password
// hash. Token consumption and the password update are atomic, so a
// token is never burned without the password actually changing.
func (u *AuthUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := u.tokens.Verify(token, jwt.PurposeReset)
	if err != nil {
		return mapTokenError(err)
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		email, err := u.resetTokens.Consume(txCtx, token)
		if err != nil {
			return err
		}
		if email != claims.Email() {
			return domainerrors.ErrInvalidToken
		}

		user, err := u.userRepo.GetByEmail(txCtx, email)
		if err != nil {
			return err
		}

		if crypto.CheckPassword(newPassword, user.PasswordHash) {
			return domainerrors.ErrSamePassword
		}
		if err := crypto.ValidatePasswordStrength(newPassword, u.minPasswordLength); err != nil {
			return domainerrors.ErrWeakPassword
		}

		passwordHash, err := crypto.HashPassword(newPassword)
		if err != nil {
			return err
		}
		return u.userRepo.UpdatePassword(txCtx, user.ID, passwordHash)
	})
}

// UpgradeToMerchant promotes a buyer account to merchant
func (u *AuthUsecase) UpgradeToMerchant(ctx context.Context, user *entities.User) (*entities.User, error) {
	if user.Role != entities.UserRoleBuyer {
		return nil, domainerrors.ErrForbidden
	}

	if err := u.userRepo.UpdateRole(ctx, user.ID, entities.UserRoleMerchant); err != nil {
		return nil, err
	}

	user.Role = entities.UserRoleMerchant
	return user, nil
}

func (u *AuthUsecase) issueTokenPair(user *entities.User) (*entities.TokenResponse, error) {
	accessToken, err := u.tokens.IssueAccess(user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	refreshToken, err := u.tokens.IssueRefresh(user.Email)
	if err != nil {
		return nil, err
	}
	return &entities.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

func (u *AuthUsecase) sendVerificationMail(ctx context.Context, email string) error {
	token, err := u.tokens.IssueVerification(email)
	if err != nil {
		return err
	}

	body := "Welcome! Confirm your email address by opening the link below.\n\n" +
		u.baseURL + "/auth/verify-email?token=" + token
	if err := u.mail.Send(ctx, email, "Verify your email", body); err != nil {
		logger.Error(ctx, "verification mail delivery failed", zap.Error(err), zap.String("email", email))
		return domainerrors.ErrMailDelivery
	}
	return nil
}

// mapTokenError translates codec errors into domain sentinels
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return domainerrors.ErrTokenExpired
	default:
		return domainerrors.ErrInvalidToken
	}
}

func optionalString(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}
