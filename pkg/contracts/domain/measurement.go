package domain

import (
	"time"
)

// Technology identifies the broadcast family a measurement belongs to.
type Technology string

const (
	// TechDigital marks digital terrestrial TV measurements.
	TechDigital Technology = "digital"
	// TechFM marks analogue FM radio measurements.
	TechFM Technology = "fm"
	// TechUnknown marks rows the classifier could not assign. Such rows stay
	// in the cleaned dataset but are excluded from every technology subset.
	TechUnknown Technology = ""
)

// Valid reports whether t is a concrete technology (digital or fm).
func (t Technology) Valid() bool {
	return t == TechDigital || t == TechFM
}

// MeasurementRecord is one cleaned field-strength measurement row.
// Optional fields use pointers; nil means the source cell was absent or
// unparseable. FieldDBuVm is the only mandatory value: rows without a
// measured field strength never make it into the dataset.
type MeasurementRecord struct {
	Municipality  string     `json:"municipality"`
	SettlementRaw string     `json:"settlement_raw"`
	Settlement    string     `json:"settlement"`
	PlaceID       string     `json:"place_id,omitempty"`
	Population    *float64   `json:"population,omitempty"`
	Households    *float64   `json:"households,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
	Year          *int       `json:"year,omitempty"`
	Month         *int       `json:"month,omitempty"`
	Sublocation   string     `json:"sublocation,omitempty"`
	ElevationM    *float64   `json:"elevation_m,omitempty"`
	ChFreqRaw     string     `json:"ch_freq_raw,omitempty"`
	ProgramID     string     `json:"program_id,omitempty"`
	Emitter       string     `json:"emitter,omitempty"`
	Tech          Technology `json:"tech,omitempty"`
	TVChannel     *int       `json:"tv_channel,omitempty"`
	FMFreqMHz     *float64   `json:"fm_freq_mhz,omitempty"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
	FieldDBuVm    float64    `json:"field_dbuv_m"`
}

// Discriminator returns true when the record carries the numeric value that
// identifies a transmitter for its technology: a TV channel for digital, a
// frequency for FM.
func (r *MeasurementRecord) Discriminator() bool {
	switch r.Tech {
	case TechDigital:
		return r.TVChannel != nil
	case TechFM:
		return r.FMFreqMHz != nil
	default:
		return false
	}
}

// FeatureVector is the single prediction row handed to a trained model.
// Features holds a value for every column of the matching feature schema;
// columns that do not apply carry an explicit nil so model-side imputation
// treats them uniformly.
type FeatureVector struct {
	Technology Technology     `json:"technology"`
	Features   map[string]any `json:"features"`
}

// RegistryEntry is the canonical name pair recorded for one place identifier.
type RegistryEntry struct {
	Municipality string `json:"municipality"`
	Settlement   string `json:"settlement"`
}
