// Package webapp is the LibStack web application: the presentation layer
// serving the catalog, loan, and admin views on top of the backend REST API.
package webapp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/libstack-dev/libstack/internal/api"
	"github.com/libstack-dev/libstack/internal/config"
	"github.com/libstack-dev/libstack/internal/session"
)

// Server represents the web application server
type Server struct {
	router   *gin.Engine
	db       *gorm.DB
	config   *config.Config
	logger   zerolog.Logger
	api      *api.Client
	sessions *session.Store
	cleanup  *cron.Cron
	version  string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	if err := session.AutoMigrate(db); err != nil {
		return nil, err
	}

	// Load the cookie signing secret, generating it on first run
	if err := initCookieSecret(db, zlog); err != nil {
		return nil, err
	}

	// Register custom validators on gin's binding engine
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			role := fl.Field().String()
			return role == api.RoleUser || role == api.RoleAdmin
		})
	}

	apiClient := api.New(cfg.Backend.URL)
	sessions := session.NewStore(db, apiClient, zlog)

	cleanup, err := session.StartCleanup(db, zlog, cfg.Sessions.CleanupSchedule, cfg.Sessions.TTL)
	if err != nil {
		return nil, err
	}

	server := &Server{
		db:       db,
		config:   cfg,
		logger:   zlog,
		api:      apiClient,
		sessions: sessions,
		cleanup:  cleanup,
		version:  version,
	}

	server.setupRouter()

	return server, nil
}

// initDatabase opens the SQLite session database
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Database.URL), &gorm.Config{
		Logger: gormlogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormlogger.Config{
				LogLevel:                  gormlogger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL first, for concurrent reads during writes
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=1",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	return db, nil
}

// initCookieSecret loads the persisted cookie signing secret, creating the
// singleton config row with a fresh secret on first run
func initCookieSecret(db *gorm.DB, zlog zerolog.Logger) error {
	var sc session.Config
	err := db.First(&sc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		secretBytes := make([]byte, 32)
		if _, err := rand.Read(secretBytes); err != nil {
			return fmt.Errorf("failed to generate cookie secret: %w", err)
		}
		sc = session.Config{CookieSecret: hex.EncodeToString(secretBytes)}
		if err := db.Create(&sc).Error; err != nil {
			return fmt.Errorf("failed to persist cookie secret: %w", err)
		}
		zlog.Info().Msg("Generated cookie signing secret on first run")
	} else if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	session.InitializeCookieSecret(sc.CookieSecret)
	return nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (no session required)
	s.router.GET("/health", s.healthCheck)

	// Everything else runs behind the session middleware, which loads or
	// creates the gateway session and performs its initial resolution.
	app := s.router.Group("/", s.sessionMiddleware())

	// Public routes
	app.GET("", s.getHome)
	app.GET("/login", s.getLogin)
	app.POST("/login", s.postLogin)
	app.POST("/register", s.postRegister)
	app.GET("/oauth2/:provider", s.getOAuth)
	app.POST("/logout", s.postLogout)

	// Authenticated views
	authed := app.Group("", s.requireAuth(false))
	{
		authed.GET("/dashboard", s.getDashboard)

		authed.GET("/books", s.getBooks)
		authed.POST("/books", s.postBook)
		authed.PUT("/books/:id", s.putBook)
		authed.DELETE("/books/:id", s.deleteBook)
		authed.POST("/books/:id/borrow", s.postBorrow)

		authed.GET("/my-loans", s.getMyLoans)
		authed.POST("/my-loans/:id/return", s.postReturn)

		authed.GET("/categories", s.getCategories)
		authed.POST("/categories", s.postCategory)
		authed.PUT("/categories/:id", s.putCategory)
		authed.DELETE("/categories/:id", s.deleteCategory)
	}

	// Admin-only views
	admin := app.Group("/admin", s.requireAuth(true))
	{
		admin.GET("/users", s.getAdminUsers)
		admin.POST("/users/:id/role", s.postUserRole)
		admin.DELETE("/users/:id", s.deleteAdminUser)
		admin.GET("/loans", s.getAdminLoans)
	}
}

// loggingMiddleware creates a request logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "libstack-webapp",
	})
}

// Router exposes the configured handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until shutdown
func (s *Server) Start() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.router,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	go func() {
		s.logger.Info().Str("addr", s.config.Server.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	s.cleanup.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	// Close database connection to flush WAL writes
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
