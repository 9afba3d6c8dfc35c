// Package grpcsrv содержит gRPC сервер проверки здоровья.
package grpcsrv

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/SversusN/reviewcheck/internal/grpcsrv/interceptors"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
)

// ServiceName имя сервиса в health
const ServiceName = "reviewcheck"

// как часто проверять хранилище
const probeEvery = 15 * time.Second

// HealthChecker сверяет статус health с доступностью хранилища.
type HealthChecker struct {
	hs      *health.Server
	storage storage.Storage
	log     *zap.Logger
}

func NewHealthChecker(hs *health.Server, s storage.Storage, log *zap.Logger) *HealthChecker {
	return &HealthChecker{hs: hs, storage: s, log: log}
}

// Probe однократная проверка; хранилище без Ping считается здоровым
func (c *HealthChecker) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if p, ok := c.storage.(storage.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			c.log.Warn("storage ping failed", zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	c.hs.SetServingStatus("", status)
	c.hs.SetServingStatus(ServiceName, status)
	return status
}

// Run проверяет хранилище до отмены контекста
func (c *HealthChecker) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			c.hs.Shutdown()
			return
		case <-t.C:
			c.Probe(ctx)
		}
	}
}

// NewGRPCServer создает и возвращает новый сервер.
func NewGRPCServer(ctx context.Context, s storage.Storage, log *zap.Logger) *grpc.Server {
	gs := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptors.LoggerInterceptor(log)),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	checker := NewHealthChecker(hs, s, log)
	checker.Probe(ctx)
	go checker.Run(ctx, probeEvery)
	return gs
}
