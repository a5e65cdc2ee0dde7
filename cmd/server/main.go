package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benbeisheim/hotseat-chess/internal/config"
	"github.com/benbeisheim/hotseat-chess/internal/controller"
	"github.com/benbeisheim/hotseat-chess/internal/middleware"
	"github.com/benbeisheim/hotseat-chess/internal/msgcat"
	"github.com/benbeisheim/hotseat-chess/internal/obslog"
	"github.com/benbeisheim/hotseat-chess/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		obslog.New("info", "console").Fatal("load config", zap.Error(err))
	}
	logger := obslog.Init(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = logger.Sync() }()

	catalog, err := msgcat.New()
	if err != nil {
		logger.Fatal("load messages", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	app.Use(middleware.RequestLogger(logger.Named("http")))

	// Initialize services
	gameManager := service.NewGameManager(cfg.Games.MaxConcurrent, cfg.Games.IdleTTL, logger.Named("games"))
	gameService := service.NewGameService(gameManager, logger.Named("games"))

	// Initialize controllers
	gameController := controller.NewGameController(gameService, catalog, logger.Named("api"))
	wsController := controller.NewWebSocketController(gameService, catalog, logger.Named("ws"))

	controller.SetupRoutes(app, gameController, wsController, gameService, splitOrigins(cfg.Server.AllowedOrigins))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go gameManager.Run(ctx, cfg.Games.SweepInterval)
	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.Server.ListenAddr))
	if err := app.Listen(cfg.Server.ListenAddr); err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
