package main

import (
	"log"
	"net/http"
	"os"

	"quickfix/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"quickfix/internal/auth"
	"quickfix/internal/cache"
	"quickfix/internal/config"
	"quickfix/internal/db"
	"quickfix/internal/handler"
	"quickfix/internal/model"
	"quickfix/internal/repository"
	"quickfix/internal/router"
	"quickfix/internal/service"
)

// @title QuickFix Marketplace API
// @version 1.0
// @description Home-services marketplace API: categories, provider directory, booking lifecycle, and reviews, with JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Review{},
			&model.Booking{},
			&model.ProviderService{},
			&model.ProviderProfile{},
			&model.Category{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.ProviderProfile{},
		&model.ProviderService{},
		&model.Booking{},
		&model.Review{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	providerRepo := repository.NewProviderRepository(gormDB)
	bookingRepo := repository.NewBookingRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient)
	directoryService := service.NewDirectoryService(providerRepo, userRepo, categoryRepo, reviewRepo)
	bookingService := service.NewBookingService(bookingRepo, providerRepo, userRepo, reviewRepo)
	reviewService := service.NewReviewService(reviewRepo, bookingRepo)
	userService := service.NewUserService(userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	providerHandler := handler.NewProviderHandler(directoryService, reviewService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	adminHandler := handler.NewAdminHandler(userService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		categoryHandler,
		providerHandler,
		bookingHandler,
		reviewHandler,
		adminHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
