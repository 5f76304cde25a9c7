// Package router wires the HTTP surface of the plate allocation
// service onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kabasele/plate-allocation/internal/config"
	"github.com/kabasele/plate-allocation/internal/handler"
	"github.com/kabasele/plate-allocation/internal/middleware"
)

// Handlers groups everything RegisterRoutes needs.  All handler fields
// must be non-nil; a nil Redis disables the rate limiter and the
// response cache.
type Handlers struct {
	Series   *handler.SeriesHandler
	Orders   *handler.OrderHandler
	Issuance *handler.IssuanceHandler
	Finance  *handler.FinanceHandler
	Redis    *redis.Client
}

// RegisterRoutes registers the health check and the full /v1 API on
// the provided Echo instance.  The token-bucket rate limiter applies
// to every /v1 route; the Redis response cache applies to the GET
// routes its configuration names.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	// Health check for load balancers and monitoring; never rate
	// limited or cached.
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")
	if h.Redis != nil {
		v1.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), h.Redis))
		v1.Use(middleware.NewRedisCache(config.LoadCacheConfig(), h.Redis))
	}

	// Reference data.
	v1.GET("/provinces", h.Series.ListProvinces)

	// Series registry and item pool.
	v1.POST("/series", h.Series.CreateSeries)
	v1.GET("/series", h.Series.ListSeries)
	v1.PATCH("/series/:id", h.Series.UpdateSeries)
	v1.PATCH("/series/:id/active", h.Series.SetActive)
	v1.GET("/series/:id/items", h.Series.ListItems)
	v1.GET("/series/:id/counts", h.Series.Counts)

	// Wholesale orders.
	v1.POST("/orders", h.Orders.CreateOrder)
	v1.GET("/orders/:id", h.Orders.GetOrder)
	v1.POST("/orders/:id/cancel", h.Orders.CancelOrder)

	// Single-plate issuances.
	v1.POST("/issuances", h.Issuance.CreateIssuance)
	v1.GET("/issuances/:id", h.Issuance.GetIssuance)
	v1.POST("/issuances/:id/cancel", h.Issuance.CancelIssuance)

	// Stateless financial computations.
	v1.POST("/pricing/penalty", h.Finance.ComputePenalty)
	v1.POST("/distributions", h.Finance.Distribute)
}
