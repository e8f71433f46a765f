// Package schema holds the persisted feature-schema contract shared between
// the training pipeline and the prediction service. The ordered column
// lists are read from the metrics document saved next to each trained
// model; the serving side iterates them verbatim and never recomputes its
// own column set, which is what guarantees train/serve parity.
package schema

import (
	"encoding/json"
	"fmt"
	"os"

	"radiosignals/pkg/contracts/domain"
)

// FeatureSchema is the ordered pair of column-name lists one trained model
// expects. The concatenation Numeric then Categorical is the exact column
// set and order of the design matrix.
type FeatureSchema struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// Columns returns the full ordered column list.
func (s FeatureSchema) Columns() []string {
	cols := make([]string, 0, len(s.Numeric)+len(s.Categorical))
	cols = append(cols, s.Numeric...)
	cols = append(cols, s.Categorical...)
	return cols
}

// Document is the per-technology metrics/schema artifact. The preparation
// step writes the feature lists and row/group counts; the external trainer
// fills in the winner algorithm and its evaluation metrics.
type Document struct {
	Tech     domain.Technology  `json:"tech"`
	Winner   string             `json:"winner,omitempty"`
	WinnerCV map[string]float64 `json:"winner_cv,omitempty"`
	Holdout  map[string]float64 `json:"holdout,omitempty"`
	Rows     int                `json:"rows"`
	Groups   int                `json:"groups"`
	Features FeatureSchema      `json:"features"`
}

// DefaultFeatures returns the feature lists the training pipeline fixes for
// a technology: shared numeric and categorical columns plus the
// technology-specific discriminator.
func DefaultFeatures(tech domain.Technology) FeatureSchema {
	numeric := []string{"latitude", "longitude", "elevation_m", "year", "month", "population", "households"}
	switch tech {
	case domain.TechDigital:
		numeric = append(numeric, "tv_channel")
	case domain.TechFM:
		numeric = append(numeric, "fm_freq_mhz")
	}
	return FeatureSchema{
		Numeric:     numeric,
		Categorical: []string{"municipality", "settlement", "program_id", "emitter"},
	}
}

// Save writes the document as indented JSON.
func (d *Document) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metrics document: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads and validates a persisted metrics document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics document: %w", err)
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode metrics document %s: %w", path, err)
	}
	if len(d.Features.Numeric) == 0 && len(d.Features.Categorical) == 0 {
		return nil, fmt.Errorf("metrics document %s carries no feature schema", path)
	}
	return &d, nil
}
