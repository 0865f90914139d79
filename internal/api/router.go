package api

import (
	"fmt"
	"net/http"
	"time"

	"pantry-chef/internal/api/handlers/health"
	recipeHandler "pantry-chef/internal/api/handlers/recipe"
	"pantry-chef/internal/api/middleware"
	"pantry-chef/internal/core/ai/service"
	recipeService "pantry-chef/internal/core/recipe"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// 食譜生成路徑；/functions/v1 與舊有 edge function 路徑相容
const (
	GenerateRecipePath       = "/api/v1/generate-recipe"
	LegacyGenerateRecipePath = "/functions/v1/generate-recipe"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, aiService *service.Service) (*gin.Engine, error) {
	if aiService == nil {
		return nil, fmt.Errorf("failed to setup router: AI service is required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	// CORS 設置：任意來源；預檢由 cors 處理，其餘回應一律帶標頭
	router.Use(middleware.CORSHeaders())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    middleware.CORSAllowHeaders,
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	recipeSvc := recipeService.NewService(aiService)
	recipeHandlerInstance := recipeHandler.NewHandler(recipeSvc)
	healthHandler := health.NewHandler(cfg, aiService)

	// 健康檢查路由
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 食譜生成
	for _, path := range []string{GenerateRecipePath, LegacyGenerateRecipePath} {
		router.POST(path, recipeHandlerInstance.HandleGenerateRecipe)
		router.OPTIONS(path, recipeHandlerInstance.HandlePreflight)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Error: common.ErrNotFound.Message,
			Code:  common.ErrCodeNotFound,
		})
	})

	common.LogInfo("Router setup completed successfully",
		zap.String("model", aiService.Model()),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_bytes", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
