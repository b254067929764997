package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/cache"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/config"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/feed"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/handlers"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/handlers/ws"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/logging"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/middleware"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/repository"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}

	logger, err := logging.Setup(cfg)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}

	db, err := repository.InitDB(cfg)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}

	// Redis is best-effort: without it the typed caches turn into no-ops.
	var redisCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		redisCache = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(); err != nil {
			logger.WithError(err).Warn("redis unavailable, running without cache")
			redisCache = nil
		} else {
			logger.Info("redis cache connected")
		}
	}
	recentCache := cache.NewRecentCache(redisCache)
	groupCache := cache.NewGroupCache(redisCache)

	runtime, err := config.LoadRuntime(cfg.ConfigFile, cfg.DefaultDanmakuSpeed)
	if err != nil {
		logger.WithError(err).Fatal("settings file unreadable")
	}

	recordsRepo := repository.NewMessageRecordRepository(db)
	sessionsRepo := repository.NewSessionRepository(db)

	resolver := service.NewGroupResolver(sessionsRepo)
	directory := service.NewDirectoryService(recordsRepo, sessionsRepo, resolver, runtime, groupCache, recentCache)

	hub := ws.NewHub()

	var changeFeed feed.Feed
	switch cfg.FeedMode {
	case config.FeedModeNotify:
		changeFeed = feed.NewNotifyFeed(cfg.URL(), cfg.NotifyChannel, recordsRepo, resolver, nil)
	default:
		changeFeed = feed.NewPollingFeed(recordsRepo, resolver, cfg.PollInterval, nil)
	}
	logger.WithField("feed_mode", cfg.FeedMode).Info("change feed selected")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := changeFeed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("change feed stopped")
		}
	}()

	// Single pump goroutine, so every subscriber sees events in feed order.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-changeFeed.Events():
				hub.BroadcastDanmaku(event)
			}
		}
	}()

	statsTicker := ws.NewStatsTicker(hub, cfg.StatsInterval, nil)
	go func() { _ = statsTicker.Run(ctx) }()

	app := fiber.New(fiber.Config{
		AppName: "Chat Message Danmaku Relay",
	})

	app.Use(requestid.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, PUT, OPTIONS",
	}))

	wsHandler := handlers.NewWebSocketHandler(hub, resolver, runtime)
	groupHandler := handlers.NewGroupHandler(directory)
	settingsHandler := handlers.NewSettingsHandler(runtime, hub, cfg.MaxDanmakuCount)

	api := app.Group("/api", middleware.OriginAllowed(cfg.Origins()), limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))
	api.Get("/groups", groupHandler.ListGroups)
	api.Get("/recent-messages/:session_id", groupHandler.RecentMessages)
	api.Get("/settings", settingsHandler.GetSettings)
	api.Put("/settings/speed", settingsHandler.SetSpeed)
	api.Put("/settings/active-group", settingsHandler.SetActiveGroup)
	api.Put("/groups/:group_id/alias", settingsHandler.SetAlias)
	api.Put("/groups/:group_id/favorite", settingsHandler.SetFavorite)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.OriginAllowed(cfg.Origins()),
		func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Danmaku relay is running",
		})
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.WithError(err).Warn("shutdown did not finish cleanly")
		}
	}()

	logger.WithField("addr", cfg.Addr()).Info("server starting")
	if err := app.Listen(cfg.Addr()); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}

	if redisCache != nil {
		_ = redisCache.Close()
	}
}
