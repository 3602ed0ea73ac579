package middleware

import (
	"context"
	"encoding/json"
	"time"

	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewErrorHandler returns the global error handler. Domain errors are mapped
// to their status code and rendered with their kind and details; everything
// else is an opaque 500. Server errors are appended to the Redis error log
// for the health dashboard.
func NewErrorHandler(rdb *redis.Client) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e := apperrors.As(err); e != nil {
			return response.DomainError(c, e.Message, e.StatusCode(), string(e.Kind), e.Details)
		}

		code := fiber.StatusInternalServerError
		message := "Internal Server Error"
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		if code >= 500 {
			log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("Unhandled error")
			if rdb != nil {
				entry, _ := json.Marshal(map[string]interface{}{
					"time":   time.Now(),
					"path":   c.OriginalURL(),
					"method": c.Method(),
					"error":  err.Error(),
				})
				ctx := context.Background()
				_ = rdb.LPush(ctx, KeyErrorLog, entry).Err()
				_ = rdb.LTrim(ctx, KeyErrorLog, 0, 99).Err()
			}
		}

		return response.Error(c, message, code, nil)
	}
}
