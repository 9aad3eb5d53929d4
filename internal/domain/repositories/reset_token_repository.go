package repositories

import (
	"context"
	"time"
)

// PasswordResetTokenRepository persists single-use password reset
// tokens keyed by the opaque token value.
type PasswordResetTokenRepository interface {
	// Record stores a new unused token bound to email.
	Record(ctx context.Context, token, email string) error
	// Consume atomically marks the token used and returns the bound
	// email. Exactly one concurrent caller succeeds; the rest observe
	// ErrNotFound or ErrResetTokenUsed.
	Consume(ctx context.Context, token string) (string, error)
	// DeleteDead removes used tokens and tokens created before cutoff.
	DeleteDead(ctx context.Context, cutoff time.Time) (int64, error)
}
