// Package dataset assembles cleaned measurement records from the rebuilt
// source sheet and derives the per-technology training subsets.
package dataset

import (
	"math"
	"strings"

	"radiosignals/internal/normalize"
	"radiosignals/pkg/contracts/domain"
)

// Marker words observed in the source sheet. The channel/frequency column
// mixes free text ("дигитал 26", "89,8 MHz"); settlement names flag FM
// relay sites; the program column names broadcasters.
const (
	markerDigital   = "дигитал"
	markerFMSite    = "ф.м"
	markerFMSiteAlt = "фм"
	markerNetRadio  = "мра"
	markerRadio     = "радио"
	markerDigitalTV = "мтв"
)

// Broadcast bands used by the numeric heuristics. Integers in the TV range
// are channel numbers; the FM band has a logged edge extension below 70 MHz.
// These boundaries are frozen: the trained models were fit against data
// cleaned with exactly these values.
const (
	tvChannelMin = 21
	tvChannelMax = 65
	fmBandMin    = 87.0
	fmBandMax    = 107.9
	fmEdgeMin    = 65.0
	fmEdgeMax    = 70.0
)

// DetectTechnology classifies one row as digital TV or FM radio from three
// raw text fields. The rule chain is ordered and first match wins: context
// markers are checked before the numeric ranges because the same digits can
// denote a TV channel or a frequency depending on surrounding words.
func DetectTechnology(settlementRaw, chFreqRaw, program string) domain.Technology {
	st := strings.ToLower(settlementRaw)
	s := strings.ToLower(chFreqRaw)
	p := strings.ToLower(program)

	if strings.Contains(s, markerDigital) {
		return domain.TechDigital
	}
	if strings.Contains(st, markerFMSite) || strings.Contains(st, markerFMSiteAlt) {
		return domain.TechFM
	}
	if strings.Contains(p, markerNetRadio) || strings.Contains(p, markerRadio) {
		return domain.TechFM
	}

	if num := normalize.Decimal(s); num != nil {
		n := *num
		if n >= tvChannelMin && n <= tvChannelMax && n == math.Trunc(n) {
			return domain.TechDigital
		}
		if n >= fmBandMin && n <= fmBandMax {
			return domain.TechFM
		}
		if n >= fmEdgeMin && n < fmEdgeMax {
			return domain.TechFM
		}
	}

	if strings.Contains(p, markerDigitalTV) {
		return domain.TechDigital
	}
	return domain.TechUnknown
}

// ExtractChannelFrequency derives the numeric TV channel or FM frequency
// from the raw channel/frequency text. The pair is mutually exclusive; a row
// yields a channel, a frequency, or neither, never both. Extraction runs
// independently of DetectTechnology: a row can be unclassified yet still
// carry an extractable number, or vice versa.
func ExtractChannelFrequency(chFreqRaw string) (channel *int, freq *float64) {
	s := strings.ToLower(chFreqRaw)
	num := normalize.Decimal(s)

	if strings.Contains(s, markerDigital) {
		if num != nil {
			ch := int(*num)
			return &ch, nil
		}
		return nil, nil
	}
	if num == nil {
		return nil, nil
	}
	n := *num
	if n >= tvChannelMin && n <= tvChannelMax && n == math.Trunc(n) {
		ch := int(n)
		return &ch, nil
	}
	if (n >= fmBandMin && n <= fmBandMax) || (n >= fmEdgeMin && n < fmEdgeMax) {
		return nil, &n
	}
	return nil, nil
}
