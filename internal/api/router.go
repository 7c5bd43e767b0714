package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/recommender/internal/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log          *logrus.Logger
	Products     ProductQuerier
	Matcher      Matcher
	Recommender  Recommender
	Prices       PriceQuoter
	Artifacts    ArtifactStatus
	CORSOrigins  []string
	CORSAllowAll bool
	Version      string
	CatalogLimit int
	DefaultTopN  int
	MaxTopN      int
}

// Router-level limits.
const (
	rateLimit = 50  // requests per second per IP
	rateBurst = 100 // token bucket burst size
)

// APIPrefix is the versioned mount point. Every route is also served at the root.
const APIPrefix = "/api/v1"

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(middleware.DefaultMaxBodyBytes))
	r.Use(cors.New(corsConfig(deps)))
	r.Use(middleware.NewRateLimiter(rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())
}

func corsConfig(deps *RouterDeps) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}
	if deps.CORSAllowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = deps.CORSOrigins
	}
	return cfg
}

// handlers groups the handler instances shared by every mount point.
type handlers struct {
	health    *HealthHandler
	products  *ProductHandler
	recommend *RecommendHandler
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(g *gin.RouterGroup, h *handlers) {
	g.GET("/health", h.health.Liveness)
	g.GET("/ready", h.health.Readiness)
	g.GET("/stats", h.health.Stats)

	g.GET("/meta/products", h.products.Catalog)
	g.GET("/product/:id", h.products.Get)
	g.GET("/product/live_price/:id", h.products.LivePrice)

	g.GET("/recommend/by_id", h.recommend.ByID)
	g.GET("/recommend/by_name", h.recommend.ByName)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(r, deps)

	h := &handlers{
		health:    NewHealthHandler(deps.Artifacts, deps.Log, deps.Version),
		products:  NewProductHandler(deps.Products, deps.Prices, deps.CatalogLimit, deps.Log),
		recommend: NewRecommendHandler(deps.Products, deps.Matcher, deps.Recommender, deps.DefaultTopN, deps.MaxTopN, deps.Log),
	}

	registerRoutes(&r.RouterGroup, h)
	registerRoutes(r.Group(APIPrefix), h)

	return r
}
