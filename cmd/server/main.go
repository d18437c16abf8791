package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/sam-reclaim/internal/adapter/handler"
	"github.com/rl1809/sam-reclaim/internal/adapter/storage"
	"github.com/rl1809/sam-reclaim/internal/core/service"
	"github.com/rl1809/sam-reclaim/internal/platform/config"
	"github.com/rl1809/sam-reclaim/internal/platform/otel"
	"github.com/rl1809/sam-reclaim/internal/port"
)

const serviceName = "sam-reclaim"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	inventory, closeInventory, err := openInventory(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeInventory()

	var idempotency port.IdempotencyStore = storage.NewMemoryIdempotency(cfg.IdempotencyTTL)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("connected to redis", "addr", cfg.RedisAddr)

		redisAdapter := storage.NewRedisAdapter(rdb, cfg.SoftwareCacheTTL, cfg.IdempotencyTTL)
		inventory = storage.NewCachedInventory(inventory, redisAdapter, logger)
		idempotency = redisAdapter
	}

	reclamation, err := service.NewReclamationService(ctx, inventory, service.Options{
		ThresholdDays: cfg.InactivityThresholdDays,
		QueueSize:     cfg.CommandQueueSize,
		Idempotency:   idempotency,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("start reclamation session: %w", err)
	}

	// gRPC server
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	handler.RegisterReclamationServer(grpcServer, handler.NewGRPCHandler(reclamation, cfg.InactivityThresholdDays))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(handler.ReclamationServiceName, healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	// HTTP server
	mux := http.NewServeMux()
	handler.NewHTTPHandler(reclamation, cfg.InactivityThresholdDays, logger).Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return reclamation.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown failed", "error", err)
		}
		logger.Info("HTTP server stopped")

		healthServer.Shutdown()
		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")

		reclamation.Close()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("connections closed")
	return nil
}

// openInventory returns the configured inventory source and a func that
// releases it.
func openInventory(ctx context.Context, cfg config.Config, logger *slog.Logger) (port.InventorySource, func(), error) {
	if cfg.InventoryBackend == config.BackendMemory {
		logger.Info("using built-in inventory fixture")
		return storage.FixtureCatalog(), func() {}, nil
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping mysql: %w", err)
	}
	logger.Info("connected to mysql")

	return storage.NewMySQLAdapter(db), func() { db.Close() }, nil
}
