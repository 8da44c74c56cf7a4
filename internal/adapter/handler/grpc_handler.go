package handler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Probe checks one backing store. Name is also the health service name the
// result is published under.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthReporter publishes store reachability over the standard gRPC health
// service. The overall status ("") is SERVING only while every probe passes.
type HealthReporter struct {
	server   *health.Server
	probes   []Probe
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

func NewHealthReporter(probes []Probe, interval time.Duration, logger *zap.Logger) *HealthReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	h := &HealthReporter{
		server:   health.NewServer(),
		probes:   probes,
		interval: interval,
		timeout:  interval / 2,
		logger:   logger.Named("health"),
	}
	h.server.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	for _, p := range probes {
		h.server.SetServingStatus(p.Name, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return h
}

func (h *HealthReporter) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Probe runs every check once and publishes the results. It reports whether
// all of them passed.
func (h *HealthReporter) Probe(ctx context.Context) bool {
	healthy := true
	for _, p := range h.probes {
		pctx, cancel := context.WithTimeout(ctx, h.timeout)
		err := p.Check(pctx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			healthy = false
			status = healthpb.HealthCheckResponse_NOT_SERVING
			h.logger.Warn("probe failed", zap.String("store", p.Name), zap.Error(err))
		}
		h.server.SetServingStatus(p.Name, status)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus("", overall)
	return healthy
}

// Run probes immediately and then on every interval until ctx is done. On
// return every service is marked NOT_SERVING.
func (h *HealthReporter) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	defer h.server.Shutdown()

	h.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}
