package rest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/izzddalfk/fabnotes/internal/notes/presentation/rest/handlers"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestLimiter decides whether a client may start another request
type RequestLimiter interface {
	RecordRequest(ctx context.Context, key string) error
	RetryAfter(key string) time.Duration
}

// RequestID tags every request with an id, reusing the caller's when present
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// Logging logs HTTP requests
func Logging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.InfoContext(c.Request.Context(), "HTTP request processed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"remote_addr", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"request_id", c.GetString(requestIDKey),
			"content_length", c.Request.ContentLength,
		)
	}
}

// Recovery turns panics into 500 {detail}
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		logger.ErrorContext(c.Request.Context(), "Panic recovered",
			"error", err,
			"stack", string(debug.Stack()),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
		)

		c.AbortWithStatusJSON(http.StatusInternalServerError,
			handlers.NewErrorResponse(fmt.Sprintf("internal server error: %v", err)))
	})
}

// RateLimit rejects clients that exceed the limiter with 429 {detail}
func RateLimit(limiter RequestLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if err := limiter.RecordRequest(c.Request.Context(), clientIP); err != nil {
			retryAfter := limiter.RetryAfter(clientIP)

			logger.WarnContext(c.Request.Context(), "Rate limit exceeded",
				"client_ip", clientIP,
				"path", c.Request.URL.Path,
				"retry_after", retryAfter,
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, handlers.NewErrorResponse(err.Error()))
			return
		}

		c.Next()
	}
}
