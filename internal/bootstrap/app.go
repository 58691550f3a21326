package bootstrap

import (
	"context"
	"time"

	"drawsong-service/config"
	gameHub "drawsong-service/internal/api/ws/hub"
	"drawsong-service/internal/session"
	"drawsong-service/pkg/graceful"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type App struct {
	config         config.Config
	postgresRepo   PostgresRepository
	sessionManager SessionManager
	kafka          Messaging
	hub            *gameHub.Hub
	chatHub        *gameHub.ChatHub
	directory      *session.Directory
	fiberApp       *fiber.App
	httpHandlers   map[string]interface{}
	wsHandlers     map[string]interface{}
}

func NewApp(config config.Config) *App {
	app := &App{
		config: config,
	}
	app.initDependencies()
	return app
}

func (a *App) initDependencies() {
	a.postgresRepo = InitDatabase(a.config)
	a.sessionManager = InitSessionRedis(a.config)
	a.kafka = InitKafka(a.config)
	a.hub, a.chatHub = InitWebsocket()

	results := NewMatchResultSink(a.postgresRepo, a.kafka)
	a.directory = SetupDirectory(a.postgresRepo, a.hub, results)

	a.httpHandlers = SetupHTTPHandlers(a.directory)
	a.wsHandlers = SetupWSHandlers(a.directory, a.hub, a.chatHub, a.sessionManager)
	a.fiberApp = SetupServer(a.config, a.httpHandlers, a.wsHandlers)
}

func (a *App) Start() {
	go func() {
		port := a.config.Server.Port
		if err := a.fiberApp.Listen(":" + port); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", a.config.Server.Port))

	defer func() {
		if err := a.postgresRepo.Close(); err != nil {
			zap.L().Error("Failed to close database", zap.Error(err))
		}
		if err := a.sessionManager.Close(); err != nil {
			zap.L().Error("Failed to close session redis", zap.Error(err))
		}
		if err := a.kafka.Close(); err != nil {
			zap.L().Error("Failed to close kafka producer", zap.Error(err))
		}
	}()

	graceful.WaitForShutdown(a.fiberApp, 5*time.Second, context.Background())
}
