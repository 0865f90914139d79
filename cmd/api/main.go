package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pantry-chef/internal/api"
	"pantry-chef/internal/core/ai/cache"
	"pantry-chef/internal/core/ai/gateway"
	"pantry-chef/internal/core/ai/service"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("Configuration loaded",
		zap.String("gateway_key", common.MaskSecret(cfg.APIKey())),
		zap.String("gateway_url", cfg.Gateway.BaseURL),
		zap.String("model", cfg.Gateway.Model),
	)
	if !cfg.HasCredential() {
		common.LogWarn("AI gateway API key is not configured; generation requests will fail until it is set")
	}

	// 初始化快取
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	store, err := cache.New(ctx, &cfg.Cache)
	cancel()
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}

	// 初始化 AI 服務
	client := gateway.NewClient(cfg)
	defer client.Close()
	aiService := service.NewService(cfg, client, store)
	defer aiService.Close()

	// 設置路由
	router, err := api.SetupRouter(cfg, aiService)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo(common.MsgAppStarted,
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo(common.MsgShuttingDown)

	// 設置關閉超時
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo(common.MsgServerExited)
}
