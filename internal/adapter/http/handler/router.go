package handler

import (
	"gul-marketplace/internal/adapter/fallback"
	"gul-marketplace/internal/adapter/http/middleware"
	redisStore "gul-marketplace/internal/adapter/storage/redis"
	"gul-marketplace/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	DirectorySvc   ports.DirectoryService
	CatalogSvc     ports.CatalogService
	SettlementSvc  ports.SettlementService
	ChainGw        ports.ChainGateway             // nil = balance endpoint disabled
	RateLimitStore *redisStore.RateLimitStore     // nil = rate limiting disabled
	DemoCatalog    *fallback.DemoCatalog          // nil = demo fallback disabled
	HealthCheckers []ports.HealthChecker
	AdminKey       string // empty disables the admin PATCH route
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	listingHandler := NewListingHandler(deps.CatalogSvc, deps.DirectorySvc, deps.DemoCatalog)
	listings := v1.Group("/listings")
	{
		listings.GET("", rl("catalog"), listingHandler.ListListings)
		listings.GET("/:id", rl("catalog"), listingHandler.GetListing)
		listings.POST("", rl("listings_create"), listingHandler.CreateListing)

		// Administrative sold-state override; settlement never goes through
		// here.
		adminAuth := middleware.AdminKey(deps.AdminKey, deps.Logger)
		listings.PATCH("/:id", adminAuth, rl("listings_patch"), listingHandler.PatchListing)
	}

	userHandler := NewUserHandler(deps.DirectorySvc)
	users := v1.Group("/users")
	{
		users.GET("", rl("users"), userHandler.GetUser)
		users.POST("", rl("users"), userHandler.UpsertUser)
	}

	purchaseHandler := NewPurchaseHandler(deps.SettlementSvc, deps.DirectorySvc)
	purchases := v1.Group("/purchases")
	{
		purchases.POST("", rl("purchases"), purchaseHandler.CreatePurchase)
		purchases.GET("", rl("purchases"), purchaseHandler.ListPurchases)
	}

	if deps.ChainGw != nil {
		balanceHandler := NewBalanceHandler(deps.ChainGw)
		v1.GET("/balance", rl("balance"), balanceHandler.GetBalance)
	}

	return r
}
