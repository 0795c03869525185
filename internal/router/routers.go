package router

import (
	"time"

	"github.com/gestio-app/gestio/config"
	"github.com/gestio-app/gestio/internal/constants"
	"github.com/gestio-app/gestio/internal/handler"
	"github.com/gestio-app/gestio/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Health *handler.HealthHandler
	Guard  *middleware.AuthGuard
}

// New builds the gin engine with the full middleware chain and every route
// group mounted under /api/v1.
func New(cfg *config.Config, h Handlers) *gin.Engine {
	if cfg.App.Environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logging(),
		middleware.CORS(cfg.Auth.FrontendURL),
	)

	limiter := middleware.NewRateLimiter(
		cfg.RateLimit.Request,
		time.Duration(cfg.RateLimit.Duration)*time.Second,
	)
	engine.Use(limiter.Middleware())

	engine.GET("/health", h.Health.Health)

	api := engine.Group("/api/v1")
	registerAuthRoutes(api, h)
	registerUserRoutes(api, h)

	return engine
}
