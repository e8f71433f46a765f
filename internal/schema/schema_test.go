package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiosignals/pkg/contracts/domain"
)

func TestDefaultFeatures(t *testing.T) {
	digital := DefaultFeatures(domain.TechDigital)
	assert.Equal(t,
		[]string{"latitude", "longitude", "elevation_m", "year", "month", "population", "households", "tv_channel"},
		digital.Numeric)
	assert.Equal(t,
		[]string{"municipality", "settlement", "program_id", "emitter"},
		digital.Categorical)

	fm := DefaultFeatures(domain.TechFM)
	assert.Contains(t, fm.Numeric, "fm_freq_mhz")
	assert.NotContains(t, fm.Numeric, "tv_channel")
	assert.Equal(t, digital.Categorical, fm.Categorical)
}

func TestColumns(t *testing.T) {
	fs := FeatureSchema{
		Numeric:     []string{"a", "b"},
		Categorical: []string{"c"},
	}
	assert.Equal(t, []string{"a", "b", "c"}, fs.Columns())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	doc := &Document{
		Tech:   domain.TechFM,
		Winner: "hist_gradient_boosting",
		WinnerCV: map[string]float64{
			"rmse": 7.21,
			"r2":   0.63,
		},
		Rows:     1240,
		Groups:   187,
		Features: DefaultFeatures(domain.TechFM),
	}

	path := filepath.Join(t.TempDir(), "metrics_fm.json")
	require.NoError(t, doc.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestLoadRejectsEmptySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics_digital.json")
	data := []byte(`{"tech": "digital", "rows": 10, "groups": 3, "features": {}}`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no feature schema")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}
