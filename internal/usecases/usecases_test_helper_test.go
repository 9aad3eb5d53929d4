package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"marketplace.backend/internal/domain/entities"
	domainrepos "marketplace.backend/internal/domain/repositories"
	infrarepos "marketplace.backend/internal/infrastructure/repositories"
	"marketplace.backend/pkg/crypto"
	"marketplace.backend/pkg/jwt"
	"marketplace.backend/pkg/logger"
	"marketplace.backend/pkg/redis"
)

func init() {
	logger.Init("test")
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string) {
	t.Helper()
	require.NoError(t, db.Exec(q).Error)
}

func createAuthTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		phone TEXT UNIQUE NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'buyer',
		is_active BOOLEAN NOT NULL DEFAULT 0,
		address TEXT,
		city TEXT,
		country TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE password_reset_tokens (
		token TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		is_used BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME
	);`)
}

func createCatalogTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		price REAL NOT NULL,
		stock_quantity INTEGER NOT NULL DEFAULT 0,
		brand TEXT,
		category_id TEXT,
		seller_id TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE product_images (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		url TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE categories (
		id TEXT PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE currencies (
		id TEXT PRIMARY KEY,
		code TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL
	);`)
}

type sentMail struct {
	to      string
	subject string
	body    string
}

// mailRecorder captures outbound mail; err makes every send fail.
type mailRecorder struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mailRecorder) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *mailRecorder) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no mail was sent")
	return m.sent[len(m.sent)-1]
}

func (m *mailRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// tokenFromMail pulls the signed token out of a mailed link
func tokenFromMail(t *testing.T, body string) string {
	t.Helper()
	idx := strings.LastIndex(body, "token=")
	require.GreaterOrEqual(t, idx, 0, "mail body carries no token link")
	return body[idx+len("token="):]
}

func newTestTokenService() *jwt.TokenService {
	return jwt.NewTokenService("test-secret", "test-refresh-secret",
		30*time.Minute, 7*24*time.Hour, 30*time.Minute, 15*time.Minute)
}

type authFixture struct {
	uc     *AuthUsecase
	users  domainrepos.UserRepository
	resets domainrepos.PasswordResetTokenRepository
	tokens *jwt.TokenService
	mail   *mailRecorder
	db     *gorm.DB
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := newTestDB(t)
	createAuthTables(t, db)

	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	users := infrarepos.NewUserRepository(db)
	resets := infrarepos.NewPasswordResetTokenRepository(db)
	mail := &mailRecorder{}
	tokens := newTestTokenService()

	uc := NewAuthUsecase(users, resets, infrarepos.NewUnitOfWork(db), tokens, mail,
		"http://localhost:8080", 8)

	return &authFixture{uc: uc, users: users, resets: resets, tokens: tokens, mail: mail, db: db}
}

// seedUser inserts an account directly, bypassing the signup flow
func (f *authFixture) seedUser(t *testing.T, email, phone, password string, role entities.UserRole, active bool) *entities.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)

	u := &entities.User{
		Email:        email,
		Phone:        phone,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	if active {
		require.NoError(t, f.users.SetActive(context.Background(), u.ID))
		u.IsActive = true
	}
	return u
}
