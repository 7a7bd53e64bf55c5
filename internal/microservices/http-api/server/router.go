package server

import (
	"context"
	"net/http"
	"time"

	"recipehub/internal/metrics"
	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/handler"
	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Checker reports whether a backing dependency is reachable.
type Checker func(ctx context.Context) error

// Deps is everything the HTTP surface needs.
type Deps struct {
	AuthService   service.AuthService
	RecipeService service.RecipeService
	RatingService service.RatingService

	Cookie        handler.CookieOptions
	CORSOrigins   []string
	MaxImageBytes int64
	Limiter       *middleware.IPRateLimiter

	// TrustedProxies may set X-Forwarded-For; empty means the client IP is
	// always the connection's remote address.
	TrustedProxies []string

	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Metrics

	// MediaDir and MediaURL are set when uploads are served from local disk.
	MediaDir string
	MediaURL string

	Checks map[string]Checker
}

// NewRouter assembles middleware and routes:
//
//	/healthz, /metrics            probes
//	/media/*                      local uploads
//	/api/...                      public reads, register and login
//	/api/... (session + CSRF)     everything acting as the caller
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		log.Warn().Err(err).Strs("proxies", d.TrustedProxies).Msg("invalid trusted proxies, trusting none")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	r.Use(middleware.CORS(d.CORSOrigins))

	r.MaxMultipartMemory = d.MaxImageBytes + 1<<20

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.Failed("REQ404", "Resource not found"))
	})

	r.GET("/healthz", healthHandler(d.Checks))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	if d.MediaDir != "" {
		r.Static(d.MediaURL, d.MediaDir)
	}

	limit := func(c *gin.Context) { c.Next() }
	if d.Limiter != nil {
		limit = middleware.RateLimit(d.Limiter)
	}

	public := r.Group("/api")
	protected := r.Group("/api",
		middleware.AuthMiddleware(d.AuthService, d.Cookie.Name),
		middleware.CSRFMiddleware(),
	)

	handler.NewAuthHandler(d.AuthService, d.Cookie).RegisterRoutes(public, protected, limit)
	handler.NewRecipeHandler(d.RecipeService, d.RatingService, d.MaxImageBytes).RegisterRoutes(public, protected)
	handler.NewRatingHandler(d.RatingService, d.Metrics).RegisterRoutes(public, protected, limit)

	return r
}

func healthHandler(checks map[string]Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		c.JSON(status, gin.H{
			"status": http.StatusText(status),
			"checks": results,
		})
	}
}
