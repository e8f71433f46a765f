// Package predictor loads the trained model artifacts and invokes them as
// black boxes: one fully assembled feature row in, one field-strength
// estimate out. The artifact format is an exported regression ensemble; its
// training and hyperparameters are external concerns.
package predictor

import (
	"encoding/json"
	"fmt"
	"os"

	"radiosignals/pkg/contracts/domain"
)

// Node is one split or leaf of an exported regression tree. A leaf carries
// Value; an inner node carries either a numeric Threshold (go left when
// value <= threshold) or a categorical membership set (go left when the
// value is in Categories). Missing feature values follow MissingLeft.
type Node struct {
	Feature     string   `json:"feature,omitempty"`
	Threshold   *float64 `json:"threshold,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Left        int      `json:"left,omitempty"`
	Right       int      `json:"right,omitempty"`
	MissingLeft bool     `json:"missing_left,omitempty"`
	Value       *float64 `json:"value,omitempty"`
}

// Model is a serialized tree ensemble. Predictions average the leaf values
// of every tree and add the bias term, matching how the trainer exports
// both single trees (one-element ensemble) and forests.
type Model struct {
	Algorithm string   `json:"algorithm"`
	Bias      float64  `json:"bias"`
	Trees     [][]Node `json:"trees"`
}

// LoadModel reads a model artifact from disk.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact %s: %w", path, err)
	}
	if len(m.Trees) == 0 {
		return nil, fmt.Errorf("model artifact %s contains no trees", path)
	}
	return &m, nil
}

// Predict evaluates the ensemble against one feature row.
func (m *Model) Predict(vector *domain.FeatureVector) (float64, error) {
	sum := 0.0
	for i, tree := range m.Trees {
		v, err := evalTree(tree, vector.Features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	return sum/float64(len(m.Trees)) + m.Bias, nil
}

func evalTree(tree []Node, row map[string]any) (float64, error) {
	idx := 0
	for steps := 0; steps <= len(tree); steps++ {
		if idx < 0 || idx >= len(tree) {
			return 0, fmt.Errorf("node index %d out of range", idx)
		}
		n := &tree[idx]
		if n.Value != nil {
			return *n.Value, nil
		}

		left := n.MissingLeft
		if raw, ok := row[n.Feature]; ok && raw != nil {
			switch {
			case n.Threshold != nil:
				f, ok := toFloat(raw)
				if !ok {
					return 0, fmt.Errorf("feature %q is not numeric", n.Feature)
				}
				left = f <= *n.Threshold
			case len(n.Categories) > 0:
				s, ok := raw.(string)
				if !ok {
					return 0, fmt.Errorf("feature %q is not categorical", n.Feature)
				}
				left = contains(n.Categories, s)
			default:
				return 0, fmt.Errorf("node %d has neither threshold nor categories", idx)
			}
		}

		if left {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
	return 0, fmt.Errorf("tree walk did not reach a leaf")
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
