package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apierrors "radiosignals/internal/errors"
	"radiosignals/internal/features"
	"radiosignals/internal/infrastructure"
	"radiosignals/internal/predictor"
	"radiosignals/internal/registry"
	"radiosignals/internal/schema"
	v1 "radiosignals/pkg/contracts/api/v1"
	"radiosignals/pkg/contracts/domain"
)

// PredictionService maps incoming requests to feature vectors and scores
// them with the model for the requested technology.
type PredictionService struct {
	store    *predictor.Store
	registry registry.Registry
	schemas  map[domain.Technology]schema.FeatureSchema
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
}

// NewPredictionService creates a prediction service from loaded artifacts.
// Metrics may be nil when observability is disabled.
func NewPredictionService(store *predictor.Store, reg registry.Registry, schemas map[domain.Technology]schema.FeatureSchema, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *PredictionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictionService{
		store:    store,
		registry: reg,
		schemas:  schemas,
		metrics:  metrics,
		logger:   logger.With(slog.String("service", "prediction")),
	}
}

// Predict resolves the technology, builds the feature vector from the
// persisted schema and runs the model. Mapping failures come back as
// *features.MappingError so the transport layer can map them to 400s.
func (s *PredictionService) Predict(ctx context.Context, req *v1.PredictRequest) (*v1.PredictResponse, error) {
	start := time.Now()

	tech, err := features.ResolveTechnology(req.Technology)
	if err != nil {
		s.recordOutcome(ctx, string(tech), start, err)
		return nil, err
	}

	fs, ok := s.schemas[tech]
	if !ok {
		s.logger.ErrorContext(ctx, "no feature schema loaded",
			slog.String("technology", string(tech)))
		s.recordOutcome(ctx, string(tech), start, apierrors.ErrModelNotReady)
		return nil, apierrors.ErrModelNotReady
	}

	if s.metrics != nil {
		_, hit := s.registry.Lookup(features.NormalizeRegistryNumber(req.Registry()))
		infrastructure.RecordRegistryLookup(ctx, s.metrics, hit)
	}

	vector, err := features.BuildVector(req, s.registry, fs)
	if err != nil {
		s.logger.WarnContext(ctx, "feature mapping rejected request",
			slog.String("technology", req.Technology),
			slog.String("error", err.Error()))
		s.recordOutcome(ctx, string(tech), start, err)
		return nil, err
	}

	value, version, err := s.store.Predict(vector)
	if err != nil {
		s.logger.ErrorContext(ctx, "model scoring failed",
			slog.String("technology", string(tech)),
			slog.String("error", err.Error()))
		s.recordOutcome(ctx, string(tech), start, err)
		return nil, fmt.Errorf("scoring %s model: %w", tech, err)
	}

	s.recordOutcome(ctx, string(tech), start, nil)
	s.logger.InfoContext(ctx, "prediction served",
		slog.String("technology", string(tech)),
		slog.Float64("field_dbuv_m", value),
		slog.String("model_version", version),
		slog.Duration("duration", time.Since(start)))

	return &v1.PredictResponse{
		Technology:   tech,
		FieldDBuVm:   value,
		Features:     vector.Features,
		ModelVersion: version,
	}, nil
}

// recordOutcome publishes prediction metrics for one request.
func (s *PredictionService) recordOutcome(ctx context.Context, tech string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	code := ""
	if err != nil {
		code = "INTERNAL"
		var me *features.MappingError
		var apiErr *apierrors.APIError
		switch {
		case errors.As(err, &me):
			code = me.Code
		case errors.As(err, &apiErr):
			code = apiErr.ErrorCode
		}
	}
	infrastructure.RecordPredictionMetrics(ctx, s.metrics, tech, time.Since(start), code)
}
