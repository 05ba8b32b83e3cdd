package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/mentorbridge/dashboard-api/config"
	"github.com/mentorbridge/dashboard-api/internal/handlers"
	"github.com/mentorbridge/dashboard-api/internal/middleware"
	"github.com/mentorbridge/dashboard-api/internal/store"
	"github.com/mentorbridge/dashboard-api/internal/upstream"
	"github.com/mentorbridge/dashboard-api/pkg/httpclient"
	"github.com/mentorbridge/dashboard-api/pkg/logger"
	"github.com/mentorbridge/dashboard-api/pkg/metrics"
	"github.com/mentorbridge/dashboard-api/pkg/profiling"
	"github.com/mentorbridge/dashboard-api/pkg/tracing"
)

// registerMentorRoutes registers the credential-protected scheduling routes
func registerMentorRoutes(
	router *gin.Engine,
	generalRateLimiter, mutationRateLimiter *middleware.RateLimiter,
	sessionsHandler *handlers.SessionsHandler,
	groupSessionsHandler *handlers.GroupSessionsHandler,
	profileHandler *handlers.ProfileHandler,
) {
	mentor := router.Group("/api/v1/mentor")
	mentor.Use(middleware.CredentialMiddleware())

	mentor.GET("/profile", generalRateLimiter.Middleware(), profileHandler.GetMentorProfile)
	mentor.DELETE("/session", generalRateLimiter.Middleware(), profileHandler.Logout)
	mentor.GET("/mentees", generalRateLimiter.Middleware(), sessionsHandler.GetMentees)
	mentor.GET("/sessions", generalRateLimiter.Middleware(), sessionsHandler.GetSessions)
	mentor.POST("/sessions", mutationRateLimiter.SessionMiddleware(), middleware.BodySizeLimitMiddleware(64*1024), sessionsHandler.AddSession)
	mentor.PUT("/sessions/:id", mutationRateLimiter.SessionMiddleware(), middleware.BodySizeLimitMiddleware(64*1024), sessionsHandler.UpdateSession)
	mentor.DELETE("/sessions/:id", mutationRateLimiter.SessionMiddleware(), sessionsHandler.CancelSession)

	// Modal state lives server-side so the dashboard can resume dialogs
	mentor.POST("/sessions/:id/modal", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(64*1024), sessionsHandler.OpenModal)
	mentor.DELETE("/sessions/:id/modal", generalRateLimiter.Middleware(), sessionsHandler.CloseModal)

	mentor.POST("/group-sessions", mutationRateLimiter.SessionMiddleware(), middleware.BodySizeLimitMiddleware(256*1024), groupSessionsHandler.CreateGroupSessions)
	mentor.DELETE("/group-sessions", mutationRateLimiter.SessionMiddleware(), middleware.BodySizeLimitMiddleware(256*1024), groupSessionsHandler.DeleteGroupSessions)

	mentee := router.Group("/api/v1/mentee")
	mentee.Use(middleware.CredentialMiddleware())
	mentee.GET("/profile", generalRateLimiter.Middleware(), profileHandler.GetMenteeProfile)

	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.CredentialMiddleware())
	admin.GET("/courses/:course/groups", generalRateLimiter.Middleware(), profileHandler.GetCourseGroups)
	admin.GET("/mentors/by-phone/:phone", generalRateLimiter.Middleware(), profileHandler.GetMentorByPhone)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting MentorBridge dashboard API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Server.AppEnv,
		cfg.Observability.CollectorEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Continuous profiling (no-op unless enabled in config)
	profilerStop, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// HTTP client shared by all platform API clients
	httpClient := httpclient.NewStandardClient()
	if cfg.Platform.TimeoutSeconds > 0 {
		httpClient = httpclient.NewStandardClientWithTimeout(time.Duration(cfg.Platform.TimeoutSeconds) * time.Second)
	}

	// The registry hands out one dashboard session per mentor credential,
	// each with its own platform client and session store
	registry := store.NewRegistry(
		cfg.Cache.SessionTTLSeconds,
		cfg.Scheduling.BookingWindowDays,
		func(credential string) store.PlatformClient {
			return upstream.NewClient(cfg.Platform.BaseURL, credential, httpClient)
		},
	)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	sessionsHandler := handlers.NewSessionsHandler(registry)
	groupSessionsHandler := handlers.NewGroupSessionsHandler(registry)
	profileHandler := handlers.NewProfileHandler(registry)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - only allow the dashboard's origins
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters: reads are cheap, mutations hit the platform API
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	mutationRateLimiter := middleware.NewRateLimiter(5, 10)   // 5 req/sec, burst of 10 per mentor

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))

	// Mentor scheduling, profile, and admin lookup routes
	registerMentorRoutes(router, generalRateLimiter, mutationRateLimiter, sessionsHandler, groupSessionsHandler, profileHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
