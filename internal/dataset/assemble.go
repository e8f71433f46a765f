package dataset

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	apperrors "radiosignals/internal/errors"
	"radiosignals/internal/normalize"
	"radiosignals/internal/sheet"
	"radiosignals/pkg/contracts/domain"
)

// Canonical Macedonian header labels of the source sheet. The field-strength
// header exists in two Unicode spellings of the micro sign (µ U+00B5 and
// μ U+03BC); both must resolve to the same column.
const (
	hdrMunicipality = "Општина"
	hdrSettlement   = "Населено место"
	hdrPlaceID      = "Матичен број"
	hdrPopulation   = "Население"
	hdrHouseholds   = "Домаќинства"
	hdrDate         = "Дата"
	hdrSublocation  = "Потесна локација"
	hdrCoordinates  = "Координати"
	hdrElevation    = "Надм.височина(м)"
	hdrChFreq       = "Канал-Фрекв."
	hdrProgram      = "Програма-Идентиф."
	hdrEmitter      = "Објект од каде се емитира"
	hdrFieldMicro   = "Ел.поле(dBµV/m)"
	hdrFieldMu      = "Ел.поле(dBμV/m)"
)

var (
	doubleStarRe    = regexp.MustCompile(`\*\*`)
	parentheticalRe = regexp.MustCompile(`\(.*?\)`)
)

// cleanSettlement strips marker suffixes ("**") and parenthetical notes from
// a raw settlement name.
func cleanSettlement(raw string) string {
	s := doubleStarRe.ReplaceAllString(raw, "")
	s = parentheticalRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// columns holds the resolved positions of every core column.
type columns struct {
	municipality, settlement, placeID int
	population, households, date      int
	sublocation, elevation            int
	chFreq, program, emitter, field   int
	coordStart, coordEnd              int
	hasCoords                         bool
}

func resolveColumns(t *sheet.Table) (*columns, error) {
	c := &columns{}
	var missing []string
	need := func(name string) int {
		i, ok := t.Column(name)
		if !ok {
			missing = append(missing, name)
		}
		return i
	}

	c.municipality = need(hdrMunicipality)
	c.settlement = need(hdrSettlement)
	c.placeID = need(hdrPlaceID)
	c.population = need(hdrPopulation)
	c.households = need(hdrHouseholds)
	c.date = need(hdrDate)
	c.sublocation = need(hdrSublocation)
	c.elevation = need(hdrElevation)
	c.chFreq = need(hdrChFreq)
	c.program = need(hdrProgram)
	c.emitter = need(hdrEmitter)

	if i, ok := t.ColumnAny(hdrFieldMicro, hdrFieldMu); ok {
		c.field = i
	} else {
		missing = append(missing, hdrFieldMicro)
	}
	if len(missing) > 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("source sheet is missing expected headers: %s", strings.Join(missing, ", ")), nil)
	}

	// The coordinate block is positional: everything between the
	// "Координати" column and the elevation column. When either label is
	// absent the block is undefined and every row gets nil coordinates.
	if start, ok := t.Column(hdrCoordinates); ok {
		c.coordStart, c.coordEnd = start, c.elevation
		c.hasCoords = c.coordEnd > c.coordStart
	}
	return c, nil
}

// LoadAndClean reads the measurement workbook and produces the cleaned,
// typed dataset. Per-field parse misses become nil values; the only hard
// filter is the target: rows without a measured field strength are dropped.
func LoadAndClean(path string, logger *slog.Logger) ([]domain.MeasurementRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t, err := sheet.Load(path, logger)
	if err != nil {
		return nil, err
	}
	cols, err := resolveColumns(t)
	if err != nil {
		return nil, err
	}

	records := make([]domain.MeasurementRecord, 0, len(t.Rows))
	dropped := 0
	for i := range t.Rows {
		target := normalize.FieldStrength(t.Cell(i, cols.field))
		if target == nil {
			dropped++
			continue
		}

		rec := domain.MeasurementRecord{
			Municipality:  t.Cell(i, cols.municipality),
			SettlementRaw: t.Cell(i, cols.settlement),
			Settlement:    cleanSettlement(t.Cell(i, cols.settlement)),
			PlaceID:       t.Cell(i, cols.placeID),
			Population:    normalize.Decimal(t.Cell(i, cols.population)),
			Households:    normalize.Decimal(t.Cell(i, cols.households)),
			Sublocation:   t.Cell(i, cols.sublocation),
			ElevationM:    normalize.Decimal(t.Cell(i, cols.elevation)),
			ChFreqRaw:     t.Cell(i, cols.chFreq),
			ProgramID:     t.Cell(i, cols.program),
			Emitter:       t.Cell(i, cols.emitter),
			FieldDBuVm:    *target,
		}

		if d := normalize.Date(t.Cell(i, cols.date)); d != nil {
			rec.Date = d
			y, m := d.Year(), int(d.Month())
			rec.Year, rec.Month = &y, &m
		}

		if cols.hasCoords {
			rec.Latitude, rec.Longitude = normalize.Coordinates(t.Span(i, cols.coordStart, cols.coordEnd))
		}

		rec.Tech = DetectTechnology(rec.SettlementRaw, rec.ChFreqRaw, rec.ProgramID)
		rec.TVChannel, rec.FMFreqMHz = ExtractChannelFrequency(rec.ChFreqRaw)

		records = append(records, rec)
	}

	logger.Info("dataset cleaned",
		slog.Int("rows", len(records)),
		slog.Int("dropped_no_target", dropped))
	return records, nil
}
