package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/hmans/moviegraph/internal/auth"
	"github.com/hmans/moviegraph/internal/ctxlog"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

const requestIDKey = "request_id"

// requestID reuses the client's request id or generates one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			var err error
			id, err = gonanoid.New(12)
			if err != nil {
				id = fmt.Sprintf("req-%d", time.Now().UnixNano())
			}
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// requestLogger puts a request-scoped logger into the request context and
// logs each request once it completes.
func requestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		logger := base.With("request_id", c.GetString(requestIDKey))
		c.Request = c.Request.WithContext(ctxlog.WithLogger(c.Request.Context(), logger))

		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// identity attaches the configured placeholder identity to every request.
func identity(name string) gin.HandlerFunc {
	if name == "" {
		name = auth.DefaultIdentity
	}
	id := auth.Identity{Name: name}
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// recovery turns handler panics into 500 responses and logs them.
func recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				ctxlog.FromContext(c.Request.Context()).Error("panic serving request", "panic", r)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
