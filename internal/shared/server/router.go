package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	googleauth "portfolio-backend/internal/auth"
	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/resumes"
	"portfolio-backend/internal/services/health"
	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/users"
	"portfolio-backend/internal/views"
)

const serviceName = "portfolio-backend"

// RouterDeps are the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config      config.Config
	Health      *health.Service
	Portfolios  *portfolios.Handler
	Views       *views.Handler
	Resumes     *resumes.Handler
	Users       *users.Handler
	GoogleAuth  *googleauth.GoogleService
	ViewLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" && deps.Config.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		otelgin.Middleware(serviceName),
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil)
	}
	healthSvc.RegisterRoutes(api)

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.Views != nil {
		deps.Views.RegisterRoutes(api, middleware.RateLimit(middleware.RateLimitConfig{
			Rule: middleware.RateLimitRule{
				Rate:  deps.Config.ViewRateLimitRPS,
				Burst: deps.Config.ViewRateLimitBurst,
			},
			KeyFor: func(c *gin.Context) string {
				return views.ClientAddress(c.Request)
			},
			Limiter: deps.ViewLimiter,
		}))
	}
	if deps.Portfolios != nil {
		deps.Portfolios.RegisterPublicRoutes(api)
	}

	authed := api.Group("")
	authed.Use(middleware.RequireUser())
	if deps.Portfolios != nil {
		deps.Portfolios.RegisterRoutes(authed)
	}
	if deps.Resumes != nil {
		deps.Resumes.RegisterRoutes(authed)
	}
	if deps.Users != nil {
		deps.Users.RegisterRoutes(authed)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
