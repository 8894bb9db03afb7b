package middleware

import (
	"strconv"
	"time"

	"github.com/ecociudad/ecociudad-backend/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency per route pattern.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		path := c.Route().Path
		metrics.RequestCount.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}
