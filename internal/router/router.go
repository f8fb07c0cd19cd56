package router

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/JeBooking/UCBE/internal/handlers"
	"github.com/JeBooking/UCBE/internal/models"
	"github.com/JeBooking/UCBE/internal/repositories"
	"github.com/JeBooking/UCBE/internal/services"
	"github.com/JeBooking/UCBE/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware: panic recovery,
// request logging, the extension-aware CORS allow-list and the general
// rate limit window.
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			return originAllowed(origin, cfg), nil
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-Requested-With", "X-Device-Id"},
		AllowCredentials: true,
	}))
	e.Use(newRateLimiter(100, 15*time.Minute, "Too many requests, please try again later."))
	log.Println("Global middleware configured.")
}

// originAllowed accepts browser-extension origins plus the configured web
// origins. Development mode accepts everything.
func originAllowed(origin string, cfg *config.Config) bool {
	if cfg.Env == "development" {
		return true
	}
	if strings.HasPrefix(origin, "chrome-extension://") || strings.HasPrefix(origin, "moz-extension://") {
		return true
	}
	for _, allowed := range cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// newRateLimiter builds a fixed-window-equivalent limiter: max requests
// per window per client IP, with stale visitors evicted after the window.
func newRateLimiter(max int, window time.Duration, message string) echo.MiddlewareFunc {
	tooMany := func(c echo.Context) error {
		return c.JSON(http.StatusTooManyRequests, models.APIResponse{Success: false, Error: message})
	}
	return eMiddleware.RateLimiterWithConfig(eMiddleware.RateLimiterConfig{
		Store: eMiddleware.NewRateLimiterMemoryStoreWithConfig(eMiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(max) / window.Seconds()),
			Burst:     max,
			ExpiresIn: window,
		}),
		ErrorHandler: func(c echo.Context, _ error) error {
			return tooMany(c)
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return tooMany(c)
		},
	})
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB) {
	// AutoMigrate PostgreSQL models
	err := db.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Like{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)

	// --- Services ---
	commentService := services.NewCommentService(commentRepo, likeRepo, userRepo)

	// --- Comment routes with per-operation write limits ---
	api := e.Group("/api")
	createLimiter := newRateLimiter(10, 5*time.Minute, "Too many comments, please slow down.")
	likeLimiter := newRateLimiter(30, time.Minute, "Too many like operations, please slow down.")

	commentHandler := handlers.NewCommentHandler(commentService)
	commentHandler.RegisterCommentRoutes(api, createLimiter, likeLimiter)
	log.Println("Comment routes configured.")

	log.Println("All routes configured.")
}
