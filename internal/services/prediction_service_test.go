package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "radiosignals/internal/errors"
	"radiosignals/internal/features"
	"radiosignals/internal/predictor"
	"radiosignals/internal/registry"
	"radiosignals/internal/schema"
	v1 "radiosignals/pkg/contracts/api/v1"
	"radiosignals/pkg/contracts/domain"
)

func writeModelArtifact(t *testing.T, dir, name string, leafValue float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	m := &predictor.Model{
		Bias:  0,
		Trees: [][]predictor.Node{{{Value: &leafValue}}},
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func newTestService(t *testing.T) *PredictionService {
	t.Helper()
	dir := t.TempDir()
	store := predictor.NewStore(
		writeModelArtifact(t, dir, "best_digital_model.json", 52.0),
		writeModelArtifact(t, dir, "best_fm_model.json", 47.5))

	reg := registry.Registry{
		"85021": {Municipality: "Скопје", Settlement: "Центар"},
	}
	schemas := map[domain.Technology]schema.FeatureSchema{
		domain.TechDigital: schema.DefaultFeatures(domain.TechDigital),
		domain.TechFM:      schema.DefaultFeatures(domain.TechFM),
	}
	return NewPredictionService(store, reg, schemas, nil, nil)
}

func validRequest(tech string) *v1.PredictRequest {
	lat, lon, elev := 41.99, 21.43, 240.0
	ch := 26
	freq := 96.5
	req := &v1.PredictRequest{
		Technology:   tech,
		Date:         json.RawMessage(`"2023-05-10T00:00:00Z"`),
		Latitude:     &lat,
		Longitude:    &lon,
		ElevationM:   &elev,
		Municipality: "Битола",
		Settlement:   "Буково",
	}
	switch tech {
	case "fm":
		req.FrequencyMHz = &freq
	default:
		req.ChannelNumber = &ch
	}
	return req
}

func TestPredictDigital(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Predict(context.Background(), validRequest("digital_tv"))
	require.NoError(t, err)

	assert.Equal(t, domain.TechDigital, resp.Technology)
	assert.InDelta(t, 52.0, resp.FieldDBuVm, 1e-9)
	assert.Equal(t, "best_digital_model", resp.ModelVersion)
	assert.Equal(t, 26.0, resp.Features["tv_channel"])
	assert.Equal(t, "Битола", resp.Features["municipality"])
}

func TestPredictFM(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Predict(context.Background(), validRequest("fm"))
	require.NoError(t, err)

	assert.Equal(t, domain.TechFM, resp.Technology)
	assert.InDelta(t, 47.5, resp.FieldDBuVm, 1e-9)
	assert.Equal(t, "best_fm_model", resp.ModelVersion)
	assert.Equal(t, 96.5, resp.Features["fm_freq_mhz"])
}

func TestPredictRegistryOverridesNames(t *testing.T) {
	svc := newTestService(t)

	req := validRequest("fm")
	req.RegistryNumber = "85021"

	resp, err := svc.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Скопје", resp.Features["municipality"])
	assert.Equal(t, "Центар", resp.Features["settlement"])
}

func TestPredictMappingErrors(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name     string
		mutate   func(*v1.PredictRequest)
		wantCode string
	}{
		{
			name:     "unsupported technology",
			mutate:   func(r *v1.PredictRequest) { r.Technology = "am" },
			wantCode: features.CodeUnsupportedTechnology,
		},
		{
			name:     "unparseable date",
			mutate:   func(r *v1.PredictRequest) { r.Date = json.RawMessage(`"кога било"`) },
			wantCode: features.CodeUnparseableDate,
		},
		{
			name: "missing location",
			mutate: func(r *v1.PredictRequest) {
				r.Municipality = ""
				r.Settlement = ""
			},
			wantCode: features.CodeMissingLocation,
		},
		{
			name:     "missing discriminator",
			mutate:   func(r *v1.PredictRequest) { r.FrequencyMHz = nil },
			wantCode: features.CodeInvalidNumeric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest("fm")
			tt.mutate(req)

			_, err := svc.Predict(context.Background(), req)
			require.Error(t, err)
			var me *features.MappingError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, tt.wantCode, me.Code)
		})
	}
}

func TestPredictSchemaNotLoaded(t *testing.T) {
	dir := t.TempDir()
	store := predictor.NewStore(
		writeModelArtifact(t, dir, "best_digital_model.json", 52.0),
		writeModelArtifact(t, dir, "best_fm_model.json", 47.5))

	schemas := map[domain.Technology]schema.FeatureSchema{
		domain.TechDigital: schema.DefaultFeatures(domain.TechDigital),
	}
	svc := NewPredictionService(store, registry.Registry{}, schemas, nil, nil)

	_, err := svc.Predict(context.Background(), validRequest("fm"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apierrors.ErrModelNotReady)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "MODEL_NOT_READY", apiErr.ErrorCode)
	assert.Equal(t, 503, apiErr.StatusCode)
}

func TestPredictModelLoadFailure(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "best_digital_model.json")
	require.NoError(t, os.WriteFile(broken, []byte("not json"), 0644))
	store := predictor.NewStore(broken, writeModelArtifact(t, dir, "best_fm_model.json", 47.5))

	schemas := map[domain.Technology]schema.FeatureSchema{
		domain.TechDigital: schema.DefaultFeatures(domain.TechDigital),
		domain.TechFM:      schema.DefaultFeatures(domain.TechFM),
	}
	svc := NewPredictionService(store, registry.Registry{}, schemas, nil, nil)

	_, err := svc.Predict(context.Background(), validRequest("digital_tv"))
	require.Error(t, err)
	var me *features.MappingError
	assert.False(t, errors.As(err, &me), "artifact failures are server-side, not mapping errors")
}
