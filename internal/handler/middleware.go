package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/courtside/club-stats-service/internal/auth"
	"github.com/courtside/club-stats-service/internal/metrics"
	"github.com/courtside/club-stats-service/pkg/response"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns each request a correlation id, honoring one supplied by
// the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// AccessLog emits one structured line per request.
func AccessLog(logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("module", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		evt := log.Info()
		if c.Writer.Status() >= 500 {
			evt = log.Error()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", c.GetString("request_id")).
			Msg("request served")
	}
}

// Observe feeds the Prometheus request counters. Uses the route template, not
// the raw path, so label cardinality stays bounded.
func Observe(m *metrics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified claims on the context.
func RequireAuth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.WriteError(c, auth.ErrUnauthorized)
			return
		}
		claims, err := svc.ParseToken(token)
		if err != nil {
			response.WriteError(c, err)
			return
		}
		c.Set("user_email", claims.Email)
		c.Next()
	}
}
