// Package api contains the API contract definitions for the radio-signals
// prediction service. Version v1 is the current stable API version.
package api

import (
	"encoding/json"
)

// PredictRequest is the payload accepted by POST /api/predict.
//
// The date field accepts epoch milliseconds (a JSON number, as emitted by
// JavaScript Date serialization) or an ISO-8601 / RFC 3339 string; it is
// kept raw here and interpreted by the feature-mapping layer. Several field
// name variants from older clients are accepted as aliases and resolved in
// the same layer.
type PredictRequest struct {
	Technology string          `json:"technology" validate:"required,technology"`
	Date       json.RawMessage `json:"date" validate:"required"`

	Latitude   *float64 `json:"latitude" validate:"required"`
	Longitude  *float64 `json:"longitude" validate:"required"`
	ElevationM *float64 `json:"elevation_m" validate:"required"`

	Population *float64 `json:"population,omitempty"`
	Households *float64 `json:"households,omitempty"`

	RegistryNumber           string `json:"registry_number,omitempty"`
	SettlementRegistryNumber string `json:"settlement_registry_number,omitempty"`
	Municipality             string `json:"municipality,omitempty"`
	Settlement               string `json:"settlement,omitempty"`

	ProgramIdentifier   string `json:"program_identifier,omitempty" validate:"omitempty,max=255"`
	ProgramID           string `json:"program_id,omitempty" validate:"omitempty,max=255"`
	TransmitterLocation string `json:"transmitter_location,omitempty" validate:"omitempty,max=255"`
	Emitter             string `json:"emitter,omitempty" validate:"omitempty,max=255"`

	// Exactly one of the channel/frequency pairs applies, depending on the
	// resolved technology.
	ChannelNumber *int     `json:"channel_number,omitempty"`
	TVChannel     *int     `json:"tv_channel,omitempty"`
	FrequencyMHz  *float64 `json:"frequency_mhz,omitempty"`
	FMFreqMHz     *float64 `json:"fm_freq_mhz,omitempty"`
}

// Channel resolves the channel-number aliases.
func (r *PredictRequest) Channel() *int {
	if r.ChannelNumber != nil {
		return r.ChannelNumber
	}
	return r.TVChannel
}

// Frequency resolves the frequency aliases.
func (r *PredictRequest) Frequency() *float64 {
	if r.FrequencyMHz != nil {
		return r.FrequencyMHz
	}
	return r.FMFreqMHz
}

// Registry resolves the registry-number aliases.
func (r *PredictRequest) Registry() string {
	if r.RegistryNumber != "" {
		return r.RegistryNumber
	}
	return r.SettlementRegistryNumber
}

// Program resolves the program-identifier aliases.
func (r *PredictRequest) Program() string {
	if r.ProgramIdentifier != "" {
		return r.ProgramIdentifier
	}
	return r.ProgramID
}

// EmitterName resolves the transmitter-location aliases.
func (r *PredictRequest) EmitterName() string {
	if r.TransmitterLocation != "" {
		return r.TransmitterLocation
	}
	return r.Emitter
}
