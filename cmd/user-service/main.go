package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	userv1 "github.com/jcmexdev/petcare-sagas/internal/contracts/user/v1"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/cache"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/command"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/config"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/telemetry"
	"github.com/jcmexdev/petcare-sagas/internal/user-service/app"
)

func main() {
	cfg, err := config.LoadService("50054", "user-service")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint, cfg.Environment)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("failed to listen", "addr", addr, "error", err)
		os.Exit(1)
	}

	var opts []command.Option
	if cfg.RedisAddr != "" {
		opts = append(opts, command.WithIdempotencyStore(cache.NewRedisCache(cfg.RedisAddr), cfg.IdempotencyTTL))
	}
	srv := command.NewServer(userv1.ServiceName, opts...)
	app.NewUserServer().Register(srv)

	slog.Info("user service running", "addr", addr, "service", userv1.ServiceName)

	if err := command.Serve(ctx, srv.NewGRPCServer(), lis); err != nil {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}
