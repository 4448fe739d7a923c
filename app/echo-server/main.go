package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"procureMatch/app/echo-server/router"
	"procureMatch/business/catalog"
	"procureMatch/business/recommend"
	"procureMatch/internal/middleware"
	"procureMatch/internal/repository/openaiclient"
	psqlRepo "procureMatch/internal/repository/postgres"
	redisRepo "procureMatch/internal/repository/redis"
	"procureMatch/internal/rest"
	"procureMatch/pkg/config"
	"procureMatch/pkg/database"
	redisdb "procureMatch/pkg/database/redis"
	"procureMatch/pkg/logger"
	"procureMatch/pkg/metrics"
	"procureMatch/pkg/utils"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting ProcureMatch", "version", cfg.App.Version)

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis is advisory: the engine serves without a cache, just slower.
	var resultCache recommend.ResultCache
	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, serving without result cache", "error", err)
	} else {
		resultCache = redisRepo.NewResultCacheRepository(redisClient)
	}

	completion, err := openaiclient.NewCompletionClient(cfg.OpenAI)
	if err != nil {
		logger.Fatal("Failed to init completion client", "error", err)
	}

	// Init repo
	catalogRepo := psqlRepo.NewCatalogRepository(db)
	interactionRepo := psqlRepo.NewInteractionRepository(db)
	graphRepo := psqlRepo.NewGraphRepository(db)

	// Init service
	engineCfg := recommend.DefaultConfig()
	engineCfg.WCollaborative = cfg.Engine.WCollaborative
	engineCfg.WContent = cfg.Engine.WContent
	engineCfg.WGraph = cfg.Engine.WGraph
	engineCfg.WSemantic = cfg.Engine.WSemantic
	engineCfg.CacheTTL = cfg.Engine.CacheTTL
	engineCfg.OverallTimeout = cfg.Engine.OverallTimeout
	engineCfg.ScorerTimeout = cfg.Engine.ScorerTimeout

	recommendService, err := recommend.NewService(catalogRepo, interactionRepo, graphRepo, completion, resultCache, engineCfg)
	if err != nil {
		logger.Fatal("Failed to init recommendation engine", "error", err)
	}
	catalogService := catalog.NewCatalogService(catalogRepo, recommendService)

	// Init handler
	recommendHandler := rest.NewRecommendHandler(recommendService)
	catalogHandler := rest.NewCatalogHandler(catalogService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceMiddleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Metrics
	metrics.Init()
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupRecommendationRoutes(api, recommendHandler)
	router.SetupCatalogRoutes(api, catalogHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", "error", err)
		}
	}

	logger.Info("Server stopped")
}
