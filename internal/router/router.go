package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/nutriplan/backend/internal/api"
	"github.com/pageza/nutriplan/backend/internal/middleware"
)

// Deps holds everything SetupRouter wires into routes
type Deps struct {
	AuthHandler       *api.AuthHandler
	MealPlanHandler   *api.MealPlanHandler
	PreferenceHandler *api.PreferenceHandler
	HealthHandler     *api.HealthHandler
	TokenValidator    middleware.TokenValidator

	Redis             *redis.Client
	GenerateRateLimit int
	AllowedOrigins    []string
	Logger            *zap.Logger
}

// SetupRouter configures the application routes
func SetupRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(d.Logger),
		middleware.RequestLogger(d.Logger),
		middleware.CORS(d.AllowedOrigins),
		middleware.ErrorHandler(d.Logger),
	)

	router.GET("/health", d.HealthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", d.AuthHandler.Register)
		auth.POST("/login", d.AuthHandler.Login)
	}

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(d.TokenValidator))

	generationLimit := middleware.NewRateLimiter(d.Redis, middleware.RateLimitConfig{
		Window:    time.Hour,
		Limit:     d.GenerateRateLimit,
		KeyPrefix: "ratelimit:generate",
	}, d.Logger).RateLimitMiddleware()

	{
		users := protected.Group("/users/me")
		{
			users.DELETE("", d.AuthHandler.DeleteAccount)
			users.GET("/preferences", d.PreferenceHandler.Get)
			users.PUT("/preferences", d.PreferenceHandler.Update)
		}

		plans := protected.Group("/meal-plans")
		{
			plans.POST("/generate", generationLimit, d.MealPlanHandler.Generate)
			plans.GET("/recommended", generationLimit, d.MealPlanHandler.Recommended)
			plans.GET("/recommended/cached", d.MealPlanHandler.CachedRecommended)
			plans.POST("/ratings", d.PreferenceHandler.RateMeal)
			plans.GET("", d.MealPlanHandler.List)
			plans.GET("/:id", d.MealPlanHandler.Get)
			plans.DELETE("/:id", d.MealPlanHandler.Delete)
			plans.POST("/:id/export", d.MealPlanHandler.Export)
		}
	}

	return router
}
