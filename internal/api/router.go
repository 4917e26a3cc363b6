package api

import (
	"context"
	"net/http"
	"time"

	blendHandler "perfume-pal/internal/api/handlers/blend"
	"perfume-pal/internal/api/handlers/health"
	"perfume-pal/internal/api/middleware"
	"perfume-pal/internal/core/ai/cache"
	aiService "perfume-pal/internal/core/ai/service"
	"perfume-pal/internal/core/blend"
	"perfume-pal/internal/infrastructure/config"
	"perfume-pal/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// per-request deadline covering both upstream calls
	timeoutDuration = 120 * time.Second
	// request body limit (1MB, text-only payloads)
	maxBodySize = 1 << 20
)

// SetupRouter builds the gin engine with all middleware and routes.
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager) (*gin.Engine, error) {
	common.LogInfo("starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.Use(middleware.Deduplication(cfg))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.Gemini.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	ai := aiService.NewService(cfg, cacheManager)

	planner := blend.NewPlannerService(ai, cfg.Blend.PlannerMaxTokens)
	formula := blend.NewFormulaService(ai, cfg.Blend.ArchitectMaxTokens)
	workflow := blend.NewWorkflow(planner, formula)

	// per-request timeout and config injection
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Set("config", cfg)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"detail": "Request timeout",
				"code":   common.ErrCodeRequestTimeout,
			})
		}
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api")
	{
		handler := blendHandler.NewHandler(workflow)
		api.POST("/generate_blends", handler.HandleGenerateBlends)
	}

	common.LogInfo("router setup completed",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
