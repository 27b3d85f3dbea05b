package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestID returns the id set by the requestid middleware, or "".
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return id
}

// RequestLogger logs one line per completed request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		begin := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		level := zerolog.InfoLevel
		if err != nil || status >= fiber.StatusInternalServerError {
			level = zerolog.ErrorLevel
		} else if status >= fiber.StatusBadRequest {
			level = zerolog.WarnLevel
		}

		log.WithLevel(level).
			Err(err).
			Str("request_id", RequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(begin)).
			Msg("Completed request")
		return err
	}
}
