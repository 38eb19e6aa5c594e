package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hybrid-cipher-go/internal/config"
	"github.com/hybrid-cipher-go/internal/encryption"
	"github.com/hybrid-cipher-go/internal/storage"
)

var startTime = time.Now()

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string   `json:"status"`
	Version      string   `json:"version"`
	Uptime       string   `json:"uptime"`
	GoVersion    string   `json:"go_version"`
	NumGoroutine int      `json:"num_goroutine"`
	MemAlloc     uint64   `json:"mem_alloc_mb"`
	Schemes      []string `json:"schemes"`
}

// HealthHandler returns server health status
func HealthHandler(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	registered := encryption.ListRegistered()
	schemes := make([]string, len(registered))
	for i, t := range registered {
		schemes[i] = string(t)
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:       "ok",
		Version:      config.Version,
		Uptime:       time.Since(startTime).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		MemAlloc:     m.Alloc / 1024 / 1024, // MB
		Schemes:      schemes,
	})
}

// ReadyHandler reports ready once the keystore answers
func ReadyHandler(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := store.Keys(storage.BucketKeySets); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
