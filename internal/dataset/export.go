package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"radiosignals/pkg/contracts/domain"
)

// csvHeader is the column order of the exported cleaned dataset.
var csvHeader = []string{
	"municipality", "settlement", "place_id", "population", "households",
	"date", "year", "month", "sublocation", "elevation_m",
	"ch_freq_raw", "program_id", "emitter", "tech",
	"tv_channel", "fm_freq_mhz", "latitude", "longitude", "field_dbuv_m",
}

// SaveCSV writes records to filePath in the canonical cleaned-dataset
// layout. Nil optional values become empty cells.
func SaveCSV(filePath string, records []domain.MeasurementRecord) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for i := range records {
		if err := writer.Write(csvRow(&records[i])); err != nil {
			return err
		}
	}
	return writer.Error()
}

func csvRow(r *domain.MeasurementRecord) []string {
	return []string{
		r.Municipality,
		r.Settlement,
		r.PlaceID,
		floatCell(r.Population, 0),
		floatCell(r.Households, 0),
		dateCell(r.Date),
		intCell(r.Year),
		intCell(r.Month),
		r.Sublocation,
		floatCell(r.ElevationM, 1),
		r.ChFreqRaw,
		r.ProgramID,
		r.Emitter,
		string(r.Tech),
		intCell(r.TVChannel),
		floatCell(r.FMFreqMHz, 1),
		floatCell(r.Latitude, 6),
		floatCell(r.Longitude, 6),
		strconv.FormatFloat(r.FieldDBuVm, 'f', 2, 64),
	}
}

func floatCell(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
