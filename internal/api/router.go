package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/drawtunes/drawtunes-api/internal/api/handlers"
	apimiddleware "github.com/drawtunes/drawtunes-api/internal/api/middleware"
	"github.com/drawtunes/drawtunes-api/internal/config"
	"github.com/drawtunes/drawtunes-api/internal/logger"
	"github.com/drawtunes/drawtunes-api/internal/metrics"
	"github.com/drawtunes/drawtunes-api/internal/music"
	"github.com/drawtunes/drawtunes-api/internal/prompt"
	"github.com/drawtunes/drawtunes-api/internal/services"
	"github.com/drawtunes/drawtunes-api/internal/store"
	"github.com/drawtunes/drawtunes-api/internal/vision"
	"github.com/drawtunes/drawtunes-api/internal/worker"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, pool *worker.Pool, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Per-client rate limiting
	router.Use(apimiddleware.RateLimit(cfg.RateLimitPerMinute))

	// Stores
	drawingStore := store.NewGormDrawingStore(db)
	generationStore := store.NewGormGenerationStore(db)
	userStore := store.NewGormUserStore(db)

	// Vision analyzer. A missing or misconfigured provider degrades to the
	// demo analysis rather than failing startup.
	factory := vision.NewFactory(cfg.GeminiAPIKey, cfg.OpenAIAPIKey)
	analyzer, err := factory.GetAnalyzer(context.Background(), cfg.VisionProvider)
	if err != nil {
		logger.Warn("Vision analyzer unavailable, analysis will use demo results", logger.Fields{
			"provider": cfg.VisionProvider,
			"error":    err.Error(),
		})
		analyzer = nil
	}
	policy := vision.NewFallbackPolicy(analyzer)

	// Music providers
	registry := music.NewRegistry(music.Credentials{
		SunoAPIKey:       cfg.SunoAPIKey,
		BeatovenAPIKey:   cfg.BeatovenAPIKey,
		ElevenLabsAPIKey: cfg.ElevenLabsAPIKey,
	})
	catalog := music.NewCatalog(registry)

	// CloudWatch metrics (enabled in production only)
	cloudwatchClient, _ := metrics.NewClient(context.Background(), cfg.Environment)

	// Services
	drawingService := services.NewDrawingService(drawingStore, cfg.UploadDir)
	analysisService := services.NewAnalysisService(drawingStore, policy).WithMetrics(cloudwatchClient)
	generationService := services.NewGenerationService(drawingStore, generationStore, registry, prompt.NewComposer()).
		WithMetrics(cloudwatchClient)
	analyticsService := services.NewAnalyticsService(drawingStore, generationStore, userStore)

	// Auth mode
	var auth gin.HandlerFunc
	if cfg.IsGatewayMode() {
		auth = apimiddleware.OptionalGatewayAuth()
	} else {
		auth = apimiddleware.NoAuth()
	}

	// Serve stored drawings
	router.Static("/uploads", cfg.UploadDir)

	// Health check
	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, registry)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// API routes v1
	v1 := router.Group("/api/v1")
	v1.Use(auth)
	{
		drawingHandler := handlers.NewDrawingHandler(drawingService, analysisService, pool, cfg.MaxFileSize)
		drawings := v1.Group("/drawings")
		drawings.POST("/upload", drawingHandler.Upload)
		drawings.GET("", drawingHandler.List)
		drawings.GET("/:id", drawingHandler.Get)
		drawings.POST("/:id/analyze", drawingHandler.Analyze)

		musicHandler := handlers.NewMusicHandler(generationService, catalog, pool)
		musicRoutes := v1.Group("/music")
		musicRoutes.POST("/generate", musicHandler.Generate)
		musicRoutes.GET("", musicHandler.List)
		musicRoutes.GET("/providers/available", musicHandler.Providers)
		musicRoutes.GET("/:id", musicHandler.Get)
		musicRoutes.POST("/:id/play", musicHandler.Play)
		musicRoutes.POST("/:id/rate", musicHandler.Rate)

		analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
		analytics := v1.Group("/analytics")
		analytics.GET("/stats", analyticsHandler.Stats)
		analytics.GET("/trends", analyticsHandler.Trends)

		userHandler := handlers.NewUserHandler(userStore)
		users := v1.Group("/users")
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
	}

	return router
}
