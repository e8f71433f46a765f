// Package features converts inbound prediction payloads into the exact
// feature row a trained model expects. Rows are assembled by iterating the
// persisted feature schema, never a hard-coded column set, so the serving
// side cannot drift from the training pipeline.
package features

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"radiosignals/internal/registry"
	"radiosignals/internal/schema"
	v1 "radiosignals/pkg/contracts/api/v1"
	"radiosignals/pkg/contracts/domain"
)

// Mapping error codes surfaced to callers as client-side rejections.
const (
	CodeUnsupportedTechnology = "UNSUPPORTED_TECHNOLOGY"
	CodeMissingLocation       = "MISSING_LOCATION"
	CodeUnparseableDate       = "UNPARSEABLE_DATE"
	CodeInvalidNumeric        = "INVALID_NUMERIC"
)

// MappingError classifies a payload the service cannot turn into model
// features. It is always the caller's problem, never a server fault.
type MappingError struct {
	Code   string
	Reason string
}

func (e *MappingError) Error() string {
	return e.Reason
}

func mappingErrorf(code, format string, args ...any) *MappingError {
	return &MappingError{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// ResolveTechnology normalizes the technology synonyms accepted at the API
// boundary onto the internal tags.
func ResolveTechnology(raw string) (domain.Technology, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "digital_tv", "digital", "dtv", "dvb":
		return domain.TechDigital, nil
	case "fm", "analogue_fm":
		return domain.TechFM, nil
	default:
		return domain.TechUnknown, mappingErrorf(CodeUnsupportedTechnology,
			"technology must be DIGITAL_TV or FM, got %q", raw)
	}
}

// NormalizeRegistryNumber cleans a place identifier arriving from callers.
// Identifiers that passed through a floating-point encoding come back as
// "1001.0"; the trailing fraction is stripped so registry lookups hit.
func NormalizeRegistryNumber(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strings.TrimSuffix(s, ".0")
}

// parseTimestamp interprets the raw date field: epoch milliseconds as a
// JSON number, or an ISO-8601 / RFC 3339 string.
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return time.Time{}, mappingErrorf(CodeUnparseableDate, "date field is required")
	}

	var millis float64
	if err := json.Unmarshal(raw, &millis); err == nil {
		sec := int64(millis / 1000)
		nsec := int64(millis) % 1000 * int64(time.Millisecond)
		return time.Unix(sec, nsec).UTC(), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return time.Time{}, mappingErrorf(CodeUnparseableDate, "unable to parse prediction date")
	}
	text = strings.TrimSpace(text)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, mappingErrorf(CodeUnparseableDate, "unable to parse prediction date %q", text)
}

// resolveNames resolves the canonical municipality/settlement pair. A
// registry hit always wins over caller-supplied names; without a hit the
// caller's names are used and both must be present.
func resolveNames(req *v1.PredictRequest, reg registry.Registry) (string, string, error) {
	if id := NormalizeRegistryNumber(req.Registry()); id != "" {
		if entry, ok := reg.Lookup(id); ok {
			muni, sett := entry.Municipality, entry.Settlement
			if muni == "" {
				muni = strings.TrimSpace(req.Municipality)
			}
			if sett == "" {
				sett = strings.TrimSpace(req.Settlement)
			}
			return muni, sett, nil
		}
	}

	muni := strings.TrimSpace(req.Municipality)
	sett := strings.TrimSpace(req.Settlement)
	if muni == "" || sett == "" {
		return "", "", mappingErrorf(CodeMissingLocation, "missing settlement or municipality information")
	}
	return muni, sett, nil
}

// requireFloat enforces a mandatory numeric field.
func requireFloat(v *float64, name string) (float64, error) {
	if v == nil {
		return 0, mappingErrorf(CodeInvalidNumeric, "required numeric value %s missing", name)
	}
	return *v, nil
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func textOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

// BuildVector assembles the feature vector for one prediction request using
// the persisted schema for the resolved technology. Every schema column is
// present in the result; values the request cannot supply (including the
// other technology's discriminator) are explicit nils so model-side
// imputation handles them uniformly.
func BuildVector(req *v1.PredictRequest, reg registry.Registry, fs schema.FeatureSchema) (*domain.FeatureVector, error) {
	tech, err := ResolveTechnology(req.Technology)
	if err != nil {
		return nil, err
	}

	ts, err := parseTimestamp(req.Date)
	if err != nil {
		return nil, err
	}

	muni, sett, err := resolveNames(req, reg)
	if err != nil {
		return nil, err
	}

	lat, err := requireFloat(req.Latitude, "latitude")
	if err != nil {
		return nil, err
	}
	lon, err := requireFloat(req.Longitude, "longitude")
	if err != nil {
		return nil, err
	}
	elev, err := requireFloat(req.ElevationM, "elevation_m")
	if err != nil {
		return nil, err
	}

	values := map[string]any{
		"latitude":     lat,
		"longitude":    lon,
		"elevation_m":  elev,
		"year":         float64(ts.Year()),
		"month":        float64(ts.Month()),
		"population":   floatOrZero(req.Population),
		"households":   floatOrZero(req.Households),
		"municipality": muni,
		"settlement":   sett,
		"program_id":   textOrUnknown(req.Program()),
		"emitter":      textOrUnknown(req.EmitterName()),
	}

	switch tech {
	case domain.TechDigital:
		if req.Channel() == nil {
			return nil, mappingErrorf(CodeInvalidNumeric, "channel_number is required for DIGITAL_TV predictions")
		}
		values["tv_channel"] = float64(*req.Channel())
	case domain.TechFM:
		if req.Frequency() == nil {
			return nil, mappingErrorf(CodeInvalidNumeric, "frequency_mhz is required for FM predictions")
		}
		values["fm_freq_mhz"] = *req.Frequency()
	}

	// Row assembly iterates the persisted schema: exactly its columns, in
	// its order, nil for anything the request has no value for.
	row := make(map[string]any, len(fs.Numeric)+len(fs.Categorical))
	for _, col := range fs.Columns() {
		if v, ok := values[col]; ok {
			row[col] = v
		} else {
			row[col] = nil
		}
	}

	return &domain.FeatureVector{Technology: tech, Features: row}, nil
}
