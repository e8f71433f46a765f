package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiosignals/pkg/contracts/domain"
)

func record(placeID, municipality, settlement string) domain.MeasurementRecord {
	return domain.MeasurementRecord{
		PlaceID:      placeID,
		Municipality: municipality,
		Settlement:   settlement,
	}
}

func TestBuild(t *testing.T) {
	records := []domain.MeasurementRecord{
		record("85021", "Скопје", "Центар"),
		record("85021", "Скопје", "Центар"),
		record("85021", "Карпош", "Центар"),
		record("12345", "Битола", "Буково"),
		record("", "Охрид", "Лескоец"),
	}

	reg := Build(records)
	require.Len(t, reg, 2, "rows without a place identifier are skipped")

	entry, ok := reg.Lookup("85021")
	require.True(t, ok)
	assert.Equal(t, "Скопје", entry.Municipality, "most frequent name wins")
	assert.Equal(t, "Центар", entry.Settlement)

	entry, ok = reg.Lookup("12345")
	require.True(t, ok)
	assert.Equal(t, "Битола", entry.Municipality)

	_, ok = reg.Lookup("99999")
	assert.False(t, ok)
}

func TestBuildTieBreak(t *testing.T) {
	records := []domain.MeasurementRecord{
		record("700", "Велес", "Горно Оризари"),
		record("700", "Чашка", "Горно Оризари"),
	}

	reg := Build(records)
	entry, ok := reg.Lookup("700")
	require.True(t, ok)
	assert.Equal(t, "Велес", entry.Municipality, "ties break toward the smaller string")
}

func TestBuildSettlementFallback(t *testing.T) {
	// Without a cleaned settlement name the raw one is counted instead.
	records := []domain.MeasurementRecord{
		{PlaceID: "300", Municipality: "Прилеп", SettlementRaw: "Варош**"},
	}

	reg := Build(records)
	entry, ok := reg.Lookup("300")
	require.True(t, ok)
	assert.Equal(t, "Варош**", entry.Settlement)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	reg := Registry{
		"85021": {Municipality: "Скопје", Settlement: "Центар"},
		"12345": {Municipality: "Битола", Settlement: "Буково"},
	}

	path := filepath.Join(t.TempDir(), "location_registry.json")
	require.NoError(t, reg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, reg, loaded)
}

func TestLoadTrimsKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "location_registry.json")
	data := []byte(`{" 85021 ": {"municipality": "Скопје", "settlement": "Центар"}}`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	reg, err := Load(path)
	require.NoError(t, err)

	entry, ok := reg.Lookup("85021")
	require.True(t, ok)
	assert.Equal(t, "Скопје", entry.Municipality)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}
