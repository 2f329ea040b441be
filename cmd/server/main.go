package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omnix-ai/realtime-gateway/internal/config"
	"github.com/omnix-ai/realtime-gateway/internal/platform/broker"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/application/handler"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/application/usecase"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/infrastructure"
	"github.com/omnix-ai/realtime-gateway/internal/realtime/transport"
	"github.com/omnix-ai/realtime-gateway/internal/shared/auth"
	"github.com/omnix-ai/realtime-gateway/internal/shared/logging"
)

func main() {
	// Load .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := logging.Setup(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Directory: cfg.Logging.Directory,
		AddSource: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID))

	hub := infrastructure.NewHub()
	snapshots := infrastructure.NewSnapshotStore()
	events := usecase.NewEvents(snapshots)
	events.SetBroadcaster(hub)

	// JWT validator for tokens issued by the OMNIX auth service
	validator := auth.NewJWTValidatorWithPublicKey(cfg.Security.JWTSecret, cfg.Security.JWTPublicKey)

	registry := broker.NewHandlerRegistry()
	registry.Register(handler.NewProductEventsHandler(cfg.Kafka.Topics.Products, events))
	registry.Register(handler.NewOrderEventsHandler(cfg.Kafka.Topics.Orders, events))
	registry.Register(handler.NewAlertEventsHandler(cfg.Kafka.Topics.Alerts, events))
	registry.Register(handler.NewSystemEventsHandler(cfg.Kafka.Topics.System, events))
	registry.Register(handler.NewRecommendationEventsHandler(cfg.Kafka.Topics.Recommendations, events))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	broker.StartConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID)

	e := echo.New()
	e.Logger.SetOutput(log.Writer())
	e.GET("/ws", transport.NewWebsocketHandler(hub, validator, events, cfg.Websocket.SendBuffer))
	e.GET("/ws/stats", transport.NewStatsHandler(validator, events))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	cancel()
	e.Close()
}
