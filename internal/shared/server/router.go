package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pdfextract-backend/internal/shared/config"
	"pdfextract-backend/internal/shared/metrics"
	"pdfextract-backend/internal/shared/server/middleware"
	"pdfextract-backend/internal/shared/server/respond"
)

// RouteRegistrar attaches a feature's routes to a group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Routes groups the registrars mounted by NewRouter. Public routes are served
// without a token; Protected routes sit behind middleware.Auth.
type Routes struct {
	Public    []RouteRegistrar
	Protected []RouteRegistrar
	// PollingRule limits GET /jobs/:id per user. Zero disables it.
	PollingRule middleware.RateLimitRule
}

// DefaultPollingRule allows a steady two polls per second with a small burst.
var DefaultPollingRule = middleware.RateLimitRule{Rate: 2, Burst: 10}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, routes Routes) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	public := r.Group("")
	for _, reg := range routes.Public {
		reg.RegisterRoutes(public)
	}

	protected := r.Group("")
	protected.Use(middleware.Auth())
	if routes.PollingRule.Rate > 0 {
		protected.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    map[string]middleware.RateLimitRule{middleware.PollingGroup: routes.PollingRule},
			GroupFor: pollingGroup,
			Limiter:  middleware.NewRateLimiter(time.Now),
		}))
	}
	registerMeRoutes(protected)
	for _, reg := range routes.Protected {
		reg.RegisterRoutes(protected)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})
	return r
}

func pollingGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodGet && c.FullPath() == "/jobs/:id" {
		return middleware.PollingGroup
	}
	return ""
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
