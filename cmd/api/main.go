package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/buildsight/backend/internal/analytics"
	"github.com/buildsight/backend/internal/api/handlers"
	"github.com/buildsight/backend/internal/cache/redis"
	"github.com/buildsight/backend/internal/metrics"
	"github.com/buildsight/backend/internal/middleware/ratelimit"
	"github.com/buildsight/backend/internal/middleware/security"
	"github.com/buildsight/backend/internal/middleware/validation"
	"github.com/buildsight/backend/internal/storage/sqlite"
	"github.com/buildsight/backend/internal/weather"
	"github.com/buildsight/backend/pkg/config"
	appLogger "github.com/buildsight/backend/pkg/logger"
	"github.com/buildsight/backend/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting BuildSight Analytics API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var cacheClient *redis.Client
	if cfg.Redis.Enabled {
		cacheClient, err = redis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer cacheClient.Close()
	}

	hub := handlers.NewHub()

	engineOpts := []analytics.Option{
		analytics.WithBroadcaster(hub),
		analytics.WithRetryConfig(retry.Config{
			MaxAttempts: cfg.Analytics.PersistAttempts,
			Logger:      appLogger.Log,
		}),
	}
	if cacheClient != nil {
		engineOpts = append(engineOpts, analytics.WithCache(cacheClient))
	}
	if cfg.Weather.Enabled {
		weatherClient := weather.NewClient(
			cfg.Weather.BaseURL,
			cfg.Weather.APIKey,
			time.Duration(cfg.Weather.TimeoutSec)*time.Second,
		)
		engineOpts = append(engineOpts, analytics.WithWeather(weatherClient))
	}

	engine := analytics.NewEngine(sqliteClient, engineOpts...)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	limiter := ratelimit.New(ratelimit.Config{Logger: appLogger.Log})
	defer limiter.Stop()
	app.Use(limiter.Middleware())

	validate := validation.Middleware(validation.Config{Logger: appLogger.Log})

	analyticsHandler := handlers.NewAnalyticsHandler(
		engine,
		sqliteClient,
		cacheClient,
		time.Duration(cfg.Analytics.ComputeTimeoutSec)*time.Second,
	)
	wsHandler := handlers.NewWebSocketHandler(hub)

	api := app.Group("/api/v1")

	api.Post("/projects/:id/analytics/compute", validate, analyticsHandler.HandleCompute)
	api.Get("/projects/:id/analytics", validate, analyticsHandler.HandleGet)

	api.Get("/metrics", metrics.MetricsHandler())

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/analytics", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
