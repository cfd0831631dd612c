package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"quickfix/internal/config"
	"quickfix/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	categoryHandler *handler.CategoryHandler,
	providerHandler *handler.ProviderHandler,
	bookingHandler *handler.BookingHandler,
	reviewHandler *handler.ReviewHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Browsing the catalog and provider directory requires no session.
	api.GET("/categories", categoryHandler.List)
	api.GET("/categories/:id/providers", providerHandler.ListByCategory)
	api.GET("/providers/:id", providerHandler.Get)
	api.GET("/providers/:id/rating", providerHandler.GetRating)

	// Secured routes (require JWT authentication). Role and ownership gates
	// live in the services, driven by the identity resolved per request.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))

	// Customer booking lifecycle
	secured.POST("/bookings", bookingHandler.Create)
	secured.GET("/bookings", bookingHandler.ListMine)
	secured.POST("/bookings/:id/accept", bookingHandler.Accept)
	secured.POST("/bookings/:id/reject", bookingHandler.Reject)
	secured.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	secured.POST("/bookings/:id/complete", bookingHandler.Complete)
	secured.POST("/bookings/:id/reviews", reviewHandler.Submit)

	// Provider self-management
	secured.PUT("/provider/profile", providerHandler.UpsertProfile)
	secured.PUT("/provider/services", providerHandler.ReplaceServices)
	secured.GET("/provider/services", providerHandler.ListServices)
	secured.GET("/provider/bookings", bookingHandler.ListAssigned)

	// Admin moderation
	secured.GET("/admin/users", adminHandler.ListUsers)
	secured.GET("/admin/bookings", bookingHandler.ListAll)
	secured.POST("/admin/categories", categoryHandler.Create)
	secured.DELETE("/admin/categories/:id", categoryHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
