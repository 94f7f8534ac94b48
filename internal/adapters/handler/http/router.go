package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

type RouterDependencies struct {
	HabitHandler *HabitHandler
	StatsHandler *StatsHandler
	ViewHandler  *ViewHandler

	// AuthHandler and Tokens are nil when owner authentication is disabled.
	AuthHandler *AuthHandler
	Tokens      middleware.TokenValidator

	Store domain.KVStore

	// Redis enables the rate limiter when set.
	Redis      *redis.Client
	RateLimit  int
	RateWindow time.Duration
	StartTime  time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		storeStatus := "connected"
		if deps.Store == nil || deps.Store.Ping(c.Request.Context()) != nil {
			storeStatus = "unreachable"
		}

		statusCode := http.StatusOK
		if storeStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status": "ok",
			"store":  storeStatus,
			"uptime": time.Since(deps.StartTime).String(),
		})
	})

	if deps.ViewHandler != nil {
		// the page's form posts change habits too, so they share the API's guard
		if deps.Tokens != nil {
			var auth *services.AuthService
			if deps.AuthHandler != nil {
				auth = deps.AuthHandler.service
			}
			deps.ViewHandler.EnableLogin(auth, deps.Tokens)
		}
		deps.ViewHandler.RegisterRoutes(router)
	}

	apiV1 := router.Group("/api/v1")

	if deps.Redis != nil && deps.RateLimit > 0 {
		window := deps.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		apiV1.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, window))
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterRoutes(apiV1)
	}

	protected := apiV1.Group("")
	if deps.Tokens != nil {
		protected.Use(middleware.AuthMiddleware(deps.Tokens))
	}
	{
		deps.HabitHandler.RegisterRoutes(protected)
		deps.StatsHandler.RegisterRoutes(protected)
	}

	return router
}
