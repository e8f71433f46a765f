package api

import (
	"radiosignals/pkg/contracts/domain"
)

// PredictResponse is the payload returned by POST /api/predict. Features is
// the fully assembled row actually fed to the model, keyed by the persisted
// feature-schema column names.
type PredictResponse struct {
	Technology   domain.Technology `json:"technology"`
	FieldDBuVm   float64           `json:"field_dbuv_m"`
	Features     map[string]any    `json:"features"`
	ModelVersion string            `json:"model_version"`
}

// HealthResponse reports process-up status and the effective artifact
// directory.
type HealthResponse struct {
	Status   string `json:"status"`
	ModelDir string `json:"model_dir"`
	Version  string `json:"version,omitempty"`
	Uptime   string `json:"uptime,omitempty"`
}

// ReadinessResponse reports per-artifact presence for the serving process.
type ReadinessResponse struct {
	Ready     bool            `json:"ready"`
	Artifacts map[string]bool `json:"artifacts"`
}
