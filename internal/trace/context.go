package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	pathTagKey   contextKey = "path_tag"
)

// maxRequestIDLen bounds client supplied X-Request-ID values
const maxRequestIDLen = 64

// GenerateRequestID generates a unique request ID in format "req-XXXXXX"
func GenerateRequestID() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "req-000000"
	}
	return "req-" + hex.EncodeToString(b)
}

// RequestIDFrom returns the incoming ID when it is usable, or a fresh one
func RequestIDFrom(incoming string) string {
	if incoming == "" || len(incoming) > maxRequestIDLen {
		return GenerateRequestID()
	}
	for _, r := range incoming {
		if r < 0x21 || r > 0x7e {
			return GenerateRequestID()
		}
	}
	return incoming
}

// ExtractPathTag names the API resource a path addresses
// For /api/keysets/demo -> "keysets:demo"
// For /api/encrypt -> "encrypt"
// For /health -> "health"
func ExtractPathTag(urlPath string) string {
	path := strings.TrimPrefix(urlPath, "/api")

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "/"
	}
	if len(parts) > 1 && parts[1] != "" {
		return parts[0] + ":" + parts[1]
	}
	return parts[0]
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDKey, reqID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithPathTag adds path tag to context
func WithPathTag(ctx context.Context, pathTag string) context.Context {
	return context.WithValue(ctx, pathTagKey, pathTag)
}

// GetPathTag retrieves path tag from context
func GetPathTag(ctx context.Context) string {
	if v, ok := ctx.Value(pathTagKey).(string); ok {
		return v
	}
	return ""
}

// Logger returns the global logger annotated with the request ID and path tag
func Logger(ctx context.Context) zerolog.Logger {
	lc := log.Logger.With()
	if reqID := GetRequestID(ctx); reqID != "" {
		lc = lc.Str("request_id", reqID)
	}
	if pathTag := GetPathTag(ctx); pathTag != "" {
		lc = lc.Str("path_tag", pathTag)
	}
	return lc.Logger()
}
