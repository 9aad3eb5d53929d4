package main

import (
	"github.com/gin-gonic/gin"
	"marketplace.backend/internal/domain/entities"
	"marketplace.backend/internal/interfaces/http/handlers"
	"marketplace.backend/internal/interfaces/http/middleware"
	"marketplace.backend/pkg/metrics"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	userHandler    *handlers.UserHandler
	productHandler *handlers.ProductHandler
	miscHandler    *handlers.MiscHandler
	authn          gin.HandlerFunc
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	r.Use(metrics.Middleware())

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/signup", d.authHandler.Signup)
		auth.POST("/login", d.authHandler.Login)
		auth.POST("/refresh-token", d.authHandler.Refresh)
		auth.GET("/verify-email", d.authHandler.VerifyEmail)
		auth.POST("/request-verification-link", d.authHandler.RequestVerificationLink)
		auth.POST("/forgot-password", d.authHandler.ForgotPassword)
		auth.POST("/reset-password", d.authHandler.ResetPassword)
	}

	// Account routes (protected)
	users := r.Group("/users", d.authn)
	{
		users.GET("/me", d.userHandler.Me)
		users.GET("/upgrade-to-merchant", d.userHandler.UpgradeToMerchant)
	}

	// Catalog routes; writes require a merchant or the owner and are
	// idempotency-key aware
	products := r.Group("/products")
	{
		products.GET("/", d.productHandler.List)
		products.GET("/:id/", d.productHandler.Get)
		products.GET("/:id/edit/", d.authn, d.productHandler.Edit)
		products.POST("/new/", d.authn, middleware.RequireRole(entities.UserRoleMerchant), middleware.IdempotencyMiddleware(), d.productHandler.Create)
		products.PUT("/:id/", d.authn, middleware.IdempotencyMiddleware(), d.productHandler.Update)
		products.DELETE("/:id/", d.authn, d.productHandler.Delete)
	}

	admin := r.Group("/admin", d.authn, middleware.RequireRole(entities.UserRoleAdmin))
	{
		admin.POST("/products/:id/images/normalize", d.productHandler.NormalizeImages)
	}

	r.GET("/categories/", d.miscHandler.Categories)
	r.GET("/currencies/", d.miscHandler.Currencies)

	r.GET("/health", d.miscHandler.Health)
	r.GET("/metrics", metrics.Handler())
}
