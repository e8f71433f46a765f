package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"radiosignals/pkg/contracts/domain"
)

func digitalRecord(settlement string, channel int) domain.MeasurementRecord {
	return domain.MeasurementRecord{
		Settlement: settlement,
		Tech:       domain.TechDigital,
		TVChannel:  intPtr(channel),
	}
}

func fmRecord(settlement string, freq float64) domain.MeasurementRecord {
	return domain.MeasurementRecord{
		Settlement: settlement,
		Tech:       domain.TechFM,
		FMFreqMHz:  floatPtr(freq),
	}
}

func TestGroupKey(t *testing.T) {
	digital := digitalRecord("Скопје", 26)
	assert.Equal(t, "Скопје_ch26", GroupKey(&digital))

	fm := fmRecord("Битола", 89.8)
	assert.Equal(t, "Битола_fm89.8", GroupKey(&fm))

	// Quantization to one decimal merges near-identical frequencies.
	fmClose := fmRecord("Битола", 89.84)
	assert.Equal(t, "Битола_fm89.8", GroupKey(&fmClose))

	unknown := domain.MeasurementRecord{Settlement: "Охрид"}
	assert.Equal(t, "Охрид", GroupKey(&unknown))
}

func TestPrepareSubset(t *testing.T) {
	var records []domain.MeasurementRecord

	// Four digital groups sized 5, 2, 1 and 4; only 5 and 4 survive.
	for i := 0; i < 5; i++ {
		records = append(records, digitalRecord("Скопје", 26))
	}
	for i := 0; i < 2; i++ {
		records = append(records, digitalRecord("Тетово", 34))
	}
	records = append(records, digitalRecord("Гостивар", 44))
	for i := 0; i < 4; i++ {
		records = append(records, digitalRecord("Струмица", 21))
	}

	// FM rows and rows without a discriminator must not leak in.
	for i := 0; i < 6; i++ {
		records = append(records, fmRecord("Битола", 89.8))
	}
	records = append(records, domain.MeasurementRecord{
		Settlement: "Крушево",
		Tech:       domain.TechDigital,
	})

	subset := PrepareSubset(records, domain.TechDigital, nil)
	assert.Len(t, subset, 9)
	assert.Equal(t, 2, GroupCount(subset))
	for i := range subset {
		assert.Equal(t, domain.TechDigital, subset[i].Tech)
		assert.NotNil(t, subset[i].TVChannel)
	}

	fmSubset := PrepareSubset(records, domain.TechFM, nil)
	assert.Len(t, fmSubset, 6)
	assert.Equal(t, 1, GroupCount(fmSubset))
}

func TestPrepareSubsetMinimumGroupSize(t *testing.T) {
	// Exactly MinGroupSize rows in one group are kept.
	var records []domain.MeasurementRecord
	for i := 0; i < MinGroupSize; i++ {
		records = append(records, fmRecord("Прилеп", 96.5))
	}
	for i := 0; i < MinGroupSize-1; i++ {
		records = append(records, fmRecord("Велес", 101.1))
	}

	subset := PrepareSubset(records, domain.TechFM, nil)
	assert.Len(t, subset, MinGroupSize)
	assert.Equal(t, 1, GroupCount(subset))
}

func TestPrepareSubsetEmpty(t *testing.T) {
	assert.Empty(t, PrepareSubset(nil, domain.TechDigital, nil))
}
