package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lakeview/cottage-admin-console/internal/config"
	"github.com/lakeview/cottage-admin-console/internal/database"
	"github.com/lakeview/cottage-admin-console/internal/handlers"
	"github.com/lakeview/cottage-admin-console/internal/middleware"
	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/internal/reports"
	"github.com/lakeview/cottage-admin-console/internal/services"
	"github.com/lakeview/cottage-admin-console/pkg/adminapi"
	"github.com/lakeview/cottage-admin-console/pkg/jwt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

const (
	idleSessionTimeout = 12 * time.Hour
	pruneInterval      = 15 * time.Minute
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting cottage reservation admin console")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Metrics for calls to the reservation API
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	apiMetrics := adminapi.NewMetrics(registry)
	transport := apiMetrics.InstrumentRoundTripper(http.DefaultTransport)

	newClient := func() (services.RemoteAPI, error) {
		return adminapi.New(adminapi.Config{
			BaseURL:      cfg.RemoteAPI.BaseURL,
			Timeout:      cfg.RemoteAPI.Timeout,
			BearerToken:  cfg.RemoteAPI.BearerToken,
			AttachBearer: cfg.RemoteAPI.AttachBearer,
			Logger:       logger,
			Transport:    transport,
		})
	}
	if _, err := newClient(); err != nil {
		logger.Fatalf("Invalid remote API configuration: %v", err)
	}
	logger.WithField("base_url", cfg.RemoteAPI.BaseURL).Info("Remote reservation API configured")

	// Optional audit trail
	var (
		auditDB       database.DB
		auditService  *services.AuditService
		auditRecorder services.AuditRecorder = services.NoopAuditRecorder{}
	)
	if cfg.Audit.Enabled {
		logger.Info("Connecting to audit database...")
		db, err := database.NewConnection(cfg.Audit)
		if err != nil {
			logger.Fatalf("Failed to connect to audit database: %v", err)
		}
		defer db.Close()

		auditRepo := database.NewConsoleAuditRepository(db)
		if err := auditRepo.EnsureSchema(); err != nil {
			logger.Fatalf("Failed to prepare audit table: %v", err)
		}
		auditDB = db
		auditService = services.NewAuditService(auditRepo, logger)
		auditRecorder = auditService
		logger.Info("Audit trail enabled")
	} else {
		logger.Info("Audit trail disabled")
	}

	// Initialize services
	logger.Info("Initializing services...")
	sessionRegistry := services.NewSessionRegistry()
	sessionService := services.NewSessionService(newClient, sessionRegistry, services.WorkspaceDeps{
		Audit:    auditRecorder,
		Logger:   logger,
		PageSize: cfg.Views.PageSize,
	})
	jwtService := jwt.NewService(cfg.Session.Secret, cfg.Session.TTL)
	exporter := reports.NewReportExporter()

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	rateLimitStore, err := middleware.NewRateLimitStore(ctx, cfg.RateLimit)
	if err != nil {
		logger.Fatalf("Failed to create rate limit store: %v", err)
	}
	if cfg.RateLimit.RedisAddr != "" {
		logger.WithField("redis_addr", cfg.RateLimit.RedisAddr).Info("Login rate limiter uses redis")
	}

	go pruneIdleSessions(ctx, sessionRegistry, logger)

	logger.Info("Services initialized")

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(sessionService, jwtService, cfg.Session, logger)
	reservationHandler := handlers.NewReservationHandler(logger)
	filterHandler := handlers.NewFilterHandler(logger)
	reportingHandler := handlers.NewReportingHandler(exporter, logger)
	accountHandler := handlers.NewAccountHandler(exporter, logger)
	healthHandler := handlers.NewHealthHandler(sessionRegistry, auditDB, version)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     append(cfg.CORS.AllowedHeaders, middleware.RequestIDHeader),
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	v1 := router.Group("/api/v1")
	{
		session := v1.Group("/session")
		{
			session.POST("/login", middleware.LoginRateLimiter(rateLimitStore, cfg.RateLimit, logger), sessionHandler.Login)
		}

		protected := v1.Group("")
		protected.Use(middleware.ConsoleSession(jwtService, sessionRegistry, cfg.Session.CookieName, logger))
		{
			protected.POST("/session/logout", sessionHandler.Logout)
			protected.GET("/session/me", sessionHandler.Me)

			reservations := protected.Group("/reservations")
			{
				reservations.GET("/cottages", reservationHandler.Catalogue)
				reservations.GET("/:status", reservationHandler.List)
				reservations.POST("", reservationHandler.Create)
				reservations.POST("/:status/confirm", reservationHandler.StatusRouteTransition(models.ActionConfirm))
				reservations.POST("/:status/cancel", reservationHandler.StatusRouteTransition(models.ActionCancel))
				reservations.POST("/:status/complete", reservationHandler.StatusRouteTransition(models.ActionComplete))
			}

			filters := protected.Group("/filters")
			{
				filters.GET("/options", filterHandler.Options)
				filters.GET("/:view", filterHandler.Get)
				filters.PUT("/:view", filterHandler.Set)
				filters.DELETE("/:view", filterHandler.Reset)
				filters.POST("/:view/year", filterHandler.ApplyYear)
				filters.POST("/:view/month-preset", filterHandler.ApplyMonthPreset)
			}

			protected.GET("/dashboard", reportingHandler.Dashboard)
			protected.GET("/metrics/:kind", reportingHandler.Metric)
			protected.GET("/reports/:status", reportingHandler.Report)
			protected.GET("/reports/:status/export", reportingHandler.ExportReport)

			restricted := protected.Group("")
			restricted.Use(middleware.RequireRestrictedNav())
			{
				restricted.GET("/admins", accountHandler.ListAdmins)
				restricted.POST("/admins", accountHandler.CreateAdmin)
				restricted.PUT("/admins/:id", accountHandler.UpdateAdmin)
				restricted.GET("/activity-logs", accountHandler.ActivityLogs)
				restricted.GET("/activity-logs/export", accountHandler.ExportActivityLogs)

				if auditService != nil {
					auditHandler := handlers.NewAuditHandler(auditService, logger)
					restricted.GET("/audit-logs", auditHandler.Recent)
				}
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RemoteAPI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopBackground()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// pruneIdleSessions drops workspaces nobody used for idleSessionTimeout
func pruneIdleSessions(ctx context.Context, registry *services.SessionRegistry, logger *logrus.Logger) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.PruneIdle(idleSessionTimeout); n > 0 {
				logger.WithFields(logrus.Fields{
					"pruned":    n,
					"remaining": registry.Len(),
				}).Info("Pruned idle console sessions")
			}
		}
	}
}
