package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/mbeoliero/kit/log"

	"github.com/KennedyWusunanwa/gida-sub000/internal/config"
	"github.com/KennedyWusunanwa/gida-sub000/internal/feed"
	"github.com/KennedyWusunanwa/gida-sub000/internal/gateway"
	"github.com/KennedyWusunanwa/gida-sub000/internal/handler"
	"github.com/KennedyWusunanwa/gida-sub000/internal/observability"
	"github.com/KennedyWusunanwa/gida-sub000/internal/repository"
	"github.com/KennedyWusunanwa/gida-sub000/internal/router"
	"github.com/KennedyWusunanwa/gida-sub000/internal/service"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/constant"
)

func main() {
	ctx := context.TODO()

	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.CtxError(ctx, "failed to load config: %v", err)
		panic(err)
	}

	log.CtxInfo(ctx, "config loaded: mode=%s", cfg.Server.Mode)

	// Initialize Redis key prefix
	constant.InitRedisKeyPrefix(cfg.Redis.KeyPrefix)
	log.CtxInfo(ctx, "redis key prefix: %s", constant.GetRedisKeyPrefix())

	// Initialize repositories
	repos, err := repository.NewRepositories(cfg)
	if err != nil {
		log.CtxError(ctx, "failed to initialize repositories: %v", err)
		panic(err)
	}
	defer repos.Close()

	// Check database connection
	if err := repos.CheckConnection(ctx); err != nil {
		log.CtxError(ctx, "database connection check failed: %v", err)
		panic(err)
	}
	log.CtxInfo(ctx, "database connection established")

	// Initialize services
	membershipService := service.NewMembershipService(repos)
	dirService := service.NewDirectoryService(repos, cfg.Support.UserId)
	msgService := service.NewMessageService(repos, membershipService)
	inboxService := service.NewInboxService(repos, cfg.Support.UserId)

	// Feed hub fans appended messages out to live subscribers
	hub := feed.NewHub(cfg.WebSocket.EventChannelSize)
	msgService.SetPublisher(hub)

	// Initialize WebSocket server
	wsServer := gateway.NewWsServer(cfg, repos.Redis, hub, msgService, membershipService)
	wsServer.Run(ctx)
	log.CtxInfo(ctx, "websocket server started")

	// Metrics endpoint on its own port
	observability.ServeMetrics(cfg.Server.MetricsPort)
	log.CtxInfo(ctx, "metrics serving on port %d", cfg.Server.MetricsPort)

	// Initialize handlers
	handlers := &router.Handlers{
		Conversation: handler.NewConversationHandler(dirService, inboxService, membershipService),
		Message:      handler.NewMessageHandler(msgService),
	}

	// Create Hertz server
	h := server.Default(
		server.WithHostPorts(fmt.Sprintf(":%d", cfg.Server.HTTPPort)),
	)

	// Setup routes
	router.SetupRouter(h, handlers, wsServer)

	log.CtxInfo(ctx, "server starting on port %d", cfg.Server.HTTPPort)

	// Start server in goroutine
	go func() {
		h.Spin()
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.CtxInfo(ctx, "shutting down server...")

	// Graceful shutdown
	if err := h.Shutdown(ctx); err != nil {
		log.CtxError(ctx, "server shutdown error: %v", err)
	}

	log.CtxInfo(ctx, "server stopped")
}
