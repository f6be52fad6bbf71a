package middleware

import (
	"sync"

	"yatube/internal/observability"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide request metrics collector. The collector
// registers with the default Prometheus registry, so it is only built once.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request count and latency.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}

// PageCacheMetrics counts page cache results reported by the cache middleware in X-Cache.
// Place it in front of the cache middleware.
func PageCacheMetrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if result := c.GetRespHeader("X-Cache"); result != "" {
			observability.PageCacheRequests.WithLabelValues(result).Inc()
		}
		return err
	}
}
