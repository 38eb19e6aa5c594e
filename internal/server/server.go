package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/hybrid-cipher-go/internal/auth"
	"github.com/hybrid-cipher-go/internal/cache"
	"github.com/hybrid-cipher-go/internal/config"
	"github.com/hybrid-cipher-go/internal/dao"
	"github.com/hybrid-cipher-go/internal/handler"
	"github.com/hybrid-cipher-go/internal/storage"
)

// Server represents the HTTP API server
type Server struct {
	cfg        *config.Config
	store      *storage.Store
	cache      *cache.Cache
	router     *gin.Engine
	httpServer *http.Server
	jwtAuth    *auth.JWTAuth
	userDAO    *dao.UserDAO
	keyDAO     *dao.KeySetDAO
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	store, err := storage.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	var keyCache *cache.Cache
	if cfg.Cache.Enable {
		keyCache = cache.NewCache(time.Duration(cfg.Cache.Expiration)*time.Minute, 0)
	}

	expireHours := cfg.JWTExpire
	if expireHours <= 0 {
		expireHours = 24
	}

	s := &Server{
		cfg:     cfg,
		store:   store,
		cache:   keyCache,
		jwtAuth: auth.NewJWTAuth(cfg.JWTSecret, time.Duration(expireHours)*time.Hour),
		userDAO: dao.NewUserDAO(store),
		keyDAO:  dao.NewKeySetDAO(store, keyCache),
	}

	// Ensure default admin user exists
	if err := s.userDAO.EnsureDefaultUser(); err != nil {
		log.Warn().Err(err).Msg("Failed to ensure default user")
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := gin.New()
	s.router = r

	r.Use(TraceMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", HealthHandler)
	r.GET("/ready", ReadyHandler(s.store))

	authHandler := handler.NewAuthHandler(s.jwtAuth, s.userDAO)
	keySetHandler := handler.NewKeySetHandler(&s.cfg.Cipher, s.keyDAO)
	cipherHandler := handler.NewCipherHandler(&s.cfg.Cipher, s.keyDAO)

	api := r.Group("/api")
	api.POST("/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(AuthMiddleware(s.jwtAuth))
	protected.POST("/password", authHandler.ChangePassword)
	protected.POST("/keysets", keySetHandler.Create)
	protected.GET("/keysets", keySetHandler.List)
	protected.GET("/keysets/:name", keySetHandler.Get)
	protected.DELETE("/keysets/:name", keySetHandler.Delete)
	protected.POST("/encrypt", cipherHandler.Encrypt)
	protected.POST("/decrypt", cipherHandler.Decrypt)
}

// Handler returns the root HTTP handler, wrapped for h2c when enabled
func (s *Server) Handler() http.Handler {
	if !s.cfg.IsH2CEnabled() {
		return s.router
	}
	h2s := &http2.Server{
		MaxConcurrentStreams: 1000,
		IdleTimeout:          120 * time.Second,
	}
	return h2c.NewHandler(s.router, h2s)
}

// Start serves HTTP until Shutdown is called
func (s *Server) Start() error {
	addr := s.cfg.GetHTTPAddr()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if s.cfg.IsH2CEnabled() {
		log.Info().Msg("HTTP/2 cleartext (h2c) enabled")
	}
	log.Info().Str("addr", addr).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down server...")

	var lastErr error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			lastErr = err
		}
	}

	if s.cache != nil {
		s.cache.Close()
	}

	if err := s.store.Close(); err != nil {
		lastErr = err
	}

	return lastErr
}
