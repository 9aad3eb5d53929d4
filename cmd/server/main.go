package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"marketplace.backend/internal/config"
	"marketplace.backend/internal/infrastructure/jobs"
	"marketplace.backend/internal/infrastructure/repositories"
	"marketplace.backend/internal/interfaces/http/handlers"
	"marketplace.backend/internal/interfaces/http/middleware"
	"marketplace.backend/internal/usecases"
	"marketplace.backend/pkg/jwt"
	"marketplace.backend/pkg/logger"
	"marketplace.backend/pkg/mailer"
	"marketplace.backend/pkg/redis"
)

const (
	resetTokenCleanupInterval = time.Hour
	resetTokenMaxAge          = 24 * time.Hour
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt:    false,
			TranslateError: true,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("Database not available: %v (endpoints will return errors)", err)
	}

	tokenService := jwt.NewTokenService(
		cfg.Auth.SecretKey,
		cfg.Auth.RefreshSecretKey,
		cfg.Auth.AccessExpiry,
		cfg.Auth.RefreshExpiry,
		cfg.Auth.VerificationExpiry,
		cfg.Auth.ResetExpiry,
	)

	mail := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	userRepo := repositories.NewUserRepository(db)
	resetTokenRepo := repositories.NewPasswordResetTokenRepository(db)
	productRepo := repositories.NewProductRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	currencyRepo := repositories.NewCurrencyRepository(db)
	uow := repositories.NewUnitOfWork(db)

	authUsecase := usecases.NewAuthUsecase(userRepo, resetTokenRepo, uow, tokenService, mail,
		cfg.Server.BaseURL, cfg.Auth.MinPasswordLength)
	productUsecase := usecases.NewProductUsecase(productRepo, categoryRepo)
	catalogUsecase := usecases.NewCatalogUsecase(categoryRepo, currencyRepo)

	authHandler := handlers.NewAuthHandler(authUsecase)
	userHandler := handlers.NewUserHandler(authUsecase)
	productHandler := handlers.NewProductHandler(productUsecase)
	miscHandler := handlers.NewMiscHandler(catalogUsecase)

	// Background cleanup of dead reset token rows
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupJob := jobs.NewResetTokenCleanupJob(resetTokenRepo, resetTokenCleanupInterval, resetTokenMaxAge)
	go cleanupJob.Start(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	registerRoutes(r, routeDeps{
		authHandler:    authHandler,
		userHandler:    userHandler,
		productHandler: productHandler,
		miscHandler:    miscHandler,
		authn:          middleware.AuthMiddleware(tokenService, userRepo),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		cleanupJob.Stop()
		cancel()
	}()

	logger.Info(ctx, "Starting server", zap.String("port", cfg.Server.Port))
	return runServer(r, cfg.Server.Port)
}
