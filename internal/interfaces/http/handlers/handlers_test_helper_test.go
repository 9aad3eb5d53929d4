package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"marketplace.backend/internal/domain/entities"
	domainrepos "marketplace.backend/internal/domain/repositories"
	infrarepos "marketplace.backend/internal/infrastructure/repositories"
	"marketplace.backend/internal/interfaces/http/middleware"
	"marketplace.backend/internal/usecases"
	"marketplace.backend/pkg/crypto"
	"marketplace.backend/pkg/jwt"
	"marketplace.backend/pkg/logger"
	"marketplace.backend/pkg/redis"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

type sentMail struct {
	to   string
	body string
}

type mailRecorder struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mailRecorder) Send(_ context.Context, to, _ string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, body: body})
	return nil
}

func (m *mailRecorder) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no mail was sent")
	body := m.sent[len(m.sent)-1].body
	idx := strings.LastIndex(body, "token=")
	require.GreaterOrEqual(t, idx, 0)
	return body[idx+len("token="):]
}

type serverFixture struct {
	router *gin.Engine
	tokens *jwt.TokenService
	users  domainrepos.UserRepository
	mail   *mailRecorder
	db     *gorm.DB
}

func newServer(t *testing.T) *serverFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	for _, q := range []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			phone TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'buyer',
			is_active BOOLEAN NOT NULL DEFAULT 0,
			address TEXT, city TEXT, country TEXT,
			created_at DATETIME, updated_at DATETIME
		);`,
		`CREATE TABLE password_reset_tokens (
			token TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			is_used BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME
		);`,
		`CREATE TABLE products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price REAL NOT NULL,
			stock_quantity INTEGER NOT NULL DEFAULT 0,
			brand TEXT,
			category_id TEXT,
			seller_id TEXT NOT NULL,
			created_at DATETIME, updated_at DATETIME, deleted_at DATETIME
		);`,
		`CREATE TABLE product_images (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL,
			url TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME
		);`,
		`CREATE TABLE categories (id TEXT PRIMARY KEY, name TEXT UNIQUE NOT NULL, created_at DATETIME);`,
		`CREATE TABLE currencies (id TEXT PRIMARY KEY, code TEXT UNIQUE NOT NULL, name TEXT NOT NULL, symbol TEXT NOT NULL);`,
	} {
		require.NoError(t, db.Exec(q).Error)
	}

	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	users := infrarepos.NewUserRepository(db)
	resets := infrarepos.NewPasswordResetTokenRepository(db)
	products := infrarepos.NewProductRepository(db)
	categories := infrarepos.NewCategoryRepository(db)
	currencies := infrarepos.NewCurrencyRepository(db)
	uow := infrarepos.NewUnitOfWork(db)

	tokens := jwt.NewTokenService("test-secret", "test-refresh-secret",
		30*time.Minute, 7*24*time.Hour, 30*time.Minute, 15*time.Minute)
	mail := &mailRecorder{}

	authUC := usecases.NewAuthUsecase(users, resets, uow, tokens, mail, "http://localhost:8080", 8)
	productUC := usecases.NewProductUsecase(products, categories)
	catalogUC := usecases.NewCatalogUsecase(categories, currencies)

	authHandler := NewAuthHandler(authUC)
	userHandler := NewUserHandler(authUC)
	productHandler := NewProductHandler(productUC)
	miscHandler := NewMiscHandler(catalogUC)

	r := gin.New()
	authn := middleware.AuthMiddleware(tokens, users)

	auth := r.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh-token", authHandler.Refresh)
		auth.GET("/verify-email", authHandler.VerifyEmail)
		auth.POST("/request-verification-link", authHandler.RequestVerificationLink)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	usersGroup := r.Group("/users", authn)
	{
		usersGroup.GET("/me", userHandler.Me)
		usersGroup.GET("/upgrade-to-merchant", userHandler.UpgradeToMerchant)
	}

	productsGroup := r.Group("/products")
	{
		productsGroup.GET("/", productHandler.List)
		productsGroup.GET("/:id/", productHandler.Get)
		productsGroup.GET("/:id/edit/", authn, productHandler.Edit)
		productsGroup.POST("/new/", authn, middleware.RequireRole(entities.UserRoleMerchant), middleware.IdempotencyMiddleware(), productHandler.Create)
		productsGroup.PUT("/:id/", authn, productHandler.Update)
		productsGroup.DELETE("/:id/", authn, productHandler.Delete)
	}

	admin := r.Group("/admin", authn, middleware.RequireRole(entities.UserRoleAdmin))
	{
		admin.POST("/products/:id/images/normalize", productHandler.NormalizeImages)
	}

	r.GET("/categories/", miscHandler.Categories)
	r.GET("/currencies/", miscHandler.Currencies)
	r.GET("/health", miscHandler.Health)

	return &serverFixture{router: r, tokens: tokens, users: users, mail: mail, db: db}
}

func (f *serverFixture) seedUser(t *testing.T, email, phone, password string, role entities.UserRole, active bool) *entities.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	u := &entities.User{
		Email: email, Phone: phone, FirstName: "Test", LastName: "User",
		PasswordHash: hash, Role: role,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	if active {
		require.NoError(t, f.users.SetActive(context.Background(), u.ID))
		u.IsActive = true
	}
	return u
}

func (f *serverFixture) accessToken(t *testing.T, u *entities.User) string {
	t.Helper()
	token, err := f.tokens.IssueAccess(u.Email, string(u.Role))
	require.NoError(t, err)
	return token
}

func (f *serverFixture) request(t *testing.T, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	return f.requestWithKey(t, method, path, body, bearer, "")
}

func (f *serverFixture) requestWithKey(t *testing.T, method, path, body, bearer, idempotencyKey string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if idempotencyKey != "" {
		req.Header.Set(middleware.IdempotencyHeader, idempotencyKey)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}
