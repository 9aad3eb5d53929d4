package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	domainerrors "marketplace.backend/internal/domain/errors"
)

func TestPasswordResetTokenRepository_RecordAndConsume(t *testing.T) {
	db := newTestDB(t)
	createPasswordResetTokenTable(t, db)
	repo := NewPasswordResetTokenRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, "tok-1", "a@x.com"))

	email, err := repo.Consume(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)

	// second consume of the same token must fail
	_, err = repo.Consume(ctx, "tok-1")
	require.ErrorIs(t, err, domainerrors.ErrResetTokenUsed)
}

func TestPasswordResetTokenRepository_ConsumeUnknown(t *testing.T) {
	db := newTestDB(t)
	createPasswordResetTokenTable(t, db)
	repo := NewPasswordResetTokenRepository(db)

	_, err := repo.Consume(context.Background(), "never-issued")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPasswordResetTokenRepository_SiblingTokensStayUsable(t *testing.T) {
	db := newTestDB(t)
	createPasswordResetTokenTable(t, db)
	repo := NewPasswordResetTokenRepository(db)
	ctx := context.Background()

	// two outstanding tokens for the same email: consuming one does not
	// invalidate the other
	require.NoError(t, repo.Record(ctx, "tok-a", "a@x.com"))
	require.NoError(t, repo.Record(ctx, "tok-b", "a@x.com"))

	_, err := repo.Consume(ctx, "tok-a")
	require.NoError(t, err)

	email, err := repo.Consume(ctx, "tok-b")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)
}

func TestPasswordResetTokenRepository_ConcurrentConsume(t *testing.T) {
	db := newTestDB(t)
	createPasswordResetTokenTable(t, db)

	// serialize the sqlite connection so the compare-and-set is exercised
	// without driver-level lock errors; against postgres the row lock
	// provides the same guarantee
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := NewPasswordResetTokenRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Record(ctx, "tok-race", "race@x.com"))

	const callers = 50
	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Consume(ctx, "tok-race")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, used int
	for err := range results {
		switch {
		case err == nil:
			wins++
		default:
			require.ErrorIs(t, err, domainerrors.ErrResetTokenUsed)
			used++
		}
	}
	require.Equal(t, 1, wins, "exactly one consume must win")
	require.Equal(t, callers-1, used)
}

func TestPasswordResetTokenRepository_DeleteDead(t *testing.T) {
	db := newTestDB(t)
	createPasswordResetTokenTable(t, db)
	repo := NewPasswordResetTokenRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, "used", "a@x.com"))
	_, err := repo.Consume(ctx, "used")
	require.NoError(t, err)

	require.NoError(t, repo.Record(ctx, "fresh", "a@x.com"))

	mustExec(t, db, `INSERT INTO password_reset_tokens (token, email, is_used, created_at) VALUES (?, ?, 0, ?)`,
		"stale", "a@x.com", time.Now().Add(-48*time.Hour))

	deleted, err := repo.DeleteDead(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	// the fresh unused token survives
	email, err := repo.Consume(ctx, "fresh")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)
}
