package services

import (
	"context"
	"log/slog"
	"os"
	"time"

	"radiosignals/internal/config"
	v1 "radiosignals/pkg/contracts/api/v1"
)

// HealthService provides liveness and readiness checks for the serving
// process. Liveness only proves the process is up; readiness stats every
// artifact the predictor depends on.
type HealthService struct {
	version   string
	artifacts config.ArtifactsConfig
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a new health service
func NewHealthService(version string, artifacts config.ArtifactsConfig, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		artifacts: artifacts,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// Liveness reports process-up status
func (s *HealthService) Liveness(ctx context.Context) *v1.HealthResponse {
	return &v1.HealthResponse{
		Status:   "ok",
		ModelDir: s.artifacts.Dir,
		Version:  s.version,
		Uptime:   time.Since(s.startTime).Round(time.Second).String(),
	}
}

// Readiness checks that every artifact file the predictor needs is present
func (s *HealthService) Readiness(ctx context.Context) *v1.ReadinessResponse {
	checks := map[string]string{
		"digital_model":   s.artifacts.DigitalModelPath(),
		"fm_model":        s.artifacts.FMModelPath(),
		"digital_metrics": s.artifacts.DigitalMetricsPath(),
		"fm_metrics":      s.artifacts.FMMetricsPath(),
		"location_lookup": s.artifacts.LocationLookupPath(),
	}

	resp := &v1.ReadinessResponse{
		Ready:     true,
		Artifacts: make(map[string]bool, len(checks)),
	}

	for name, path := range checks {
		_, err := os.Stat(path)
		ok := err == nil
		resp.Artifacts[name] = ok
		if !ok {
			resp.Ready = false
			s.logger.WarnContext(ctx, "artifact missing",
				slog.String("artifact", name),
				slog.String("path", path))
		}
	}

	return resp
}
