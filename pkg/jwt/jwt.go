package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrMalformedToken = errors.New("malformed token")
)

// Purpose identifies what a signed token is allowed to be used for.
// Each purpose signs with its own derived key, so a token issued for
// one purpose never verifies under another.
type Purpose string

const (
	PurposeAccess       Purpose = "access"
	PurposeRefresh      Purpose = "refresh"
	PurposeVerification Purpose = "verification"
	PurposeReset        Purpose = "reset"
)

// Claims represents the claim set carried by signed tokens.
// The subject is the user's email.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Email returns the subject claim.
func (c *Claims) Email() string {
	return c.Subject
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService signs and verifies purpose-scoped HS256 tokens
type TokenService struct {
	keys     map[Purpose][]byte
	expiries map[Purpose]time.Duration
}

var signToken = func(token *jwt.Token, key []byte) (string, error) {
	return token.SignedString(key)
}

// NewTokenService creates a token service. Access, verification and
// reset keys derive from secret; the refresh key derives from
// refreshSecret so the two secrets can rotate independently.
func NewTokenService(secret, refreshSecret string, accessExpiry, refreshExpiry, verificationExpiry, resetExpiry time.Duration) *TokenService {
	return &TokenService{
		keys: map[Purpose][]byte{
			PurposeAccess:       deriveKey([]byte(secret), PurposeAccess),
			PurposeRefresh:      deriveKey([]byte(refreshSecret), PurposeRefresh),
			PurposeVerification: deriveKey([]byte(secret), PurposeVerification),
			PurposeReset:        deriveKey([]byte(secret), PurposeReset),
		},
		expiries: map[Purpose]time.Duration{
			PurposeAccess:       accessExpiry,
			PurposeRefresh:      refreshExpiry,
			PurposeVerification: verificationExpiry,
			PurposeReset:        resetExpiry,
		},
	}
}

// IssueAccess issues a short-lived access token carrying the user role
func (s *TokenService) IssueAccess(email, role string) (string, error) {
	return s.issue(PurposeAccess, email, role)
}

// IssueRefresh issues a long-lived refresh token
func (s *TokenService) IssueRefresh(email string) (string, error) {
	return s.issue(PurposeRefresh, email, "")
}

// IssueVerification issues an email verification token
func (s *TokenService) IssueVerification(email string) (string, error) {
	return s.issue(PurposeVerification, email, "")
}

// IssueReset issues a password reset token
func (s *TokenService) IssueReset(email string) (string, error) {
	return s.issue(PurposeReset, email, "")
}

// Verify validates a token under the given purpose's key and returns
// its claims. Failures map to ErrExpiredToken, ErrMalformedToken or
// ErrInvalidToken.
func (s *TokenService) Verify(tokenString string, purpose Purpose) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.keys[purpose], nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *TokenService) issue(purpose Purpose, email, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiries[purpose])),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return signToken(token, s.keys[purpose])
}

// deriveKey expands a base secret into a per-purpose signing key
func deriveKey(secret []byte, purpose Purpose) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(purpose))
	return mac.Sum(nil)
}
