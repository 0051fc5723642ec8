package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/config"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/lookup"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/infra/adapters/service"
	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/infra/httpx"
	healthv1 "github.com/jcmexdev/petcare-sagas/internal/contracts/health/v1"
	mediav1 "github.com/jcmexdev/petcare-sagas/internal/contracts/media/v1"
	petv1 "github.com/jcmexdev/petcare-sagas/internal/contracts/pet/v1"
	userv1 "github.com/jcmexdev/petcare-sagas/internal/contracts/user/v1"
	"github.com/jcmexdev/petcare-sagas/internal/coordinator"
	"github.com/jcmexdev/petcare-sagas/internal/coordinator/sagalog"
	"github.com/jcmexdev/petcare-sagas/internal/coordinator/sagalog/sqlite"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/cache"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/command"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/dispatch"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
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

	policy := cfg.RemotePolicy()

	petConn := createGRPCConn(cfg.PetServiceAddr)
	defer petConn.Close()
	healthConn := createGRPCConn(cfg.HealthServiceAddr)
	defer healthConn.Close()
	mediaConn := createGRPCConn(cfg.MediaServiceAddr)
	defer mediaConn.Close()
	userConn := createGRPCConn(cfg.UserServiceAddr)
	defer userConn.Close()

	pets := service.NewPetCommands(newDispatcher(petConn, petv1.ServiceName, policy))
	health := service.NewHealthCommands(newDispatcher(healthConn, healthv1.ServiceName, policy))
	media := service.NewMediaCommands(newDispatcher(mediaConn, mediav1.ServiceName, policy))
	users := service.NewUserCommands(newDispatcher(userConn, userv1.ServiceName, policy))

	store := cache.NewStore(cache.NewRedisCache(cfg.RedisAddr))
	lookups := lookup.NewService(store, users, pets, cfg.LookupOptions()...)

	// Both stay nil when the saga log is disabled.
	var (
		sagaLog    sagalog.Repository
		sagaReader sagalog.Reader
	)
	if cfg.SagaLogEnabled {
		repo, err := openSagaLog(cfg.SagaLogPath)
		if err != nil {
			slog.Error("failed to open saga log", "path", cfg.SagaLogPath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		sagaLog, sagaReader = repo, repo
	}

	workflows := coordinator.NewWorkflows(pets, health, media, users, sagaLog)
	handler := httpx.NewHandler(lookups, pets, health, users, workflows, sagaReader, cfg.MaxUploadBytes)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	}()

	slog.Info("api gateway running", "addr", cfg.HTTPAddr, "saga_log", cfg.SagaLogEnabled)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

func createGRPCConn(addr string) *grpc.ClientConn {
	conn, err := command.Dial(addr)
	if err != nil {
		slog.Error("could not connect", "addr", addr, "error", err)
		os.Exit(1)
	}
	return conn
}

func newDispatcher(conn *grpc.ClientConn, serviceName string, policy dispatch.Policy) *dispatch.Dispatcher {
	return dispatch.New(serviceName, command.NewClient(conn, serviceName), policy)
}

func openSagaLog(path string) (*sqlite.Repository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return sqlite.Open(path)
}
