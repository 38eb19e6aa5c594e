package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hybrid-cipher-go/internal/auth"
	"github.com/hybrid-cipher-go/internal/errors"
	"github.com/hybrid-cipher-go/internal/handler"
	"github.com/hybrid-cipher-go/internal/trace"
)

// TraceMiddleware adds request tracing context to each request
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := trace.RequestIDFrom(c.GetHeader("X-Request-ID"))
		pathTag := trace.ExtractPathTag(c.Request.URL.Path)

		ctx := trace.WithRequestID(c.Request.Context(), reqID)
		ctx = trace.WithPathTag(ctx, pathTag)
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}

// LoggerMiddleware logs one event per HTTP request
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		event := log.Info()
		if c.Writer.Status() >= 500 {
			event = log.Error()
		}
		event.
			Str("request_id", trace.GetRequestID(c.Request.Context())).
			Str("path_tag", trace.GetPathTag(c.Request.Context())).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int("bytes", c.Writer.Size()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

// AuthMiddleware validates bearer JWT tokens
func AuthMiddleware(jwtAuth *auth.JWTAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			handler.RespondError(c, errors.NewUnauthorized("missing bearer token"))
			return
		}

		claims, err := jwtAuth.ValidateToken(token)
		if err != nil {
			handler.RespondError(c, errors.NewUnauthorized(err.Error()))
			return
		}

		c.Set(handler.UsernameKey, claims.Username)
		c.Next()
	}
}
