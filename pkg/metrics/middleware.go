package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HTTPMetricsMiddleware tracks HTTP request metrics
func HTTPMetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		err := c.Next()

		duration := time.Since(start).Seconds()

		status := c.Response().StatusCode()
		statusStr := strconv.Itoa(status)

		method := c.Method()
		path := routePath(c)

		HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)
		HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()

		return err
	}
}

// routePath returns the matched route pattern to keep label cardinality low.
// Example: /api/users/1700000000000 -> /api/users/:userId
func routePath(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "/" {
		return route.Path
	}
	if c.Path() == "/" {
		return "/"
	}
	return "/unmatched"
}
