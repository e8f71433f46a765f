package dataset

import (
	"fmt"
	"log/slog"

	"radiosignals/pkg/contracts/domain"
)

// MinGroupSize is the smallest number of repeated measurements a
// transmitter/location group needs to take part in grouped cross-validation.
// Smaller groups cannot appear in every fold and are excluded.
const MinGroupSize = 3

// GroupKey identifies repeated measurements of the same physical
// transmitter: settlement name plus the technology-tagged, quantized
// discriminator (integer channel for digital, frequency rounded to one
// decimal for FM). The record must already carry its discriminator.
func GroupKey(r *domain.MeasurementRecord) string {
	switch r.Tech {
	case domain.TechDigital:
		return fmt.Sprintf("%s_ch%d", r.Settlement, *r.TVChannel)
	case domain.TechFM:
		return fmt.Sprintf("%s_fm%.1f", r.Settlement, *r.FMFreqMHz)
	default:
		return r.Settlement
	}
}

// PrepareSubset selects the training rows for one technology: records
// classified to that technology that also carry the matching numeric
// discriminator, with groups below MinGroupSize removed.
func PrepareSubset(records []domain.MeasurementRecord, tech domain.Technology, logger *slog.Logger) []domain.MeasurementRecord {
	if logger == nil {
		logger = slog.Default()
	}

	var candidates []domain.MeasurementRecord
	for _, r := range records {
		if r.Tech == tech && r.Discriminator() {
			candidates = append(candidates, r)
		}
	}

	counts := make(map[string]int, len(candidates))
	for i := range candidates {
		counts[GroupKey(&candidates[i])]++
	}

	var kept []domain.MeasurementRecord
	for i := range candidates {
		if counts[GroupKey(&candidates[i])] >= MinGroupSize {
			kept = append(kept, candidates[i])
		}
	}

	groups := 0
	for _, n := range counts {
		if n >= MinGroupSize {
			groups++
		}
	}
	logger.Info("subset prepared",
		slog.String("tech", string(tech)),
		slog.Int("candidate_rows", len(candidates)),
		slog.Int("kept_rows", len(kept)),
		slog.Int("groups", groups))
	return kept
}

// GroupCount returns the number of distinct group keys in a subset.
func GroupCount(records []domain.MeasurementRecord) int {
	seen := make(map[string]struct{}, len(records))
	for i := range records {
		seen[GroupKey(&records[i])] = struct{}{}
	}
	return len(seen)
}
