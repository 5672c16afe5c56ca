package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTimeseries(t *testing.T, opts Options) []TimeseriesRecord {
	t.Helper()
	res := buildPayload(t, "timeseries", opts)
	records, ok := res.Payload.([]TimeseriesRecord)
	require.True(t, ok)
	assert.Equal(t, len(records), res.Records)
	return records
}

func findSeries(records []TimeseriesRecord, country, item string) *TimeseriesRecord {
	for i := range records {
		if records[i].Country == country && records[i].Item == item {
			return &records[i]
		}
	}
	return nil
}

func TestTimeseries_ScalesMassMetrics(t *testing.T) {
	records := buildTimeseries(t, Options{})

	soy := findSeries(records, "Brazil", "Soyabeans")
	require.NotNil(t, soy)
	assert.Equal(t, "t", soy.Unit)
	require.Len(t, soy.Data, 2)

	y2022 := soy.Data[1]
	assert.Equal(t, 2022, y2022.Year)
	require.NotNil(t, y2022.Production)
	assert.Equal(t, 120000.0, *y2022.Production)
	require.NotNil(t, y2022.Imports)
	assert.Equal(t, 1000.0, *y2022.Imports)
	require.NotNil(t, y2022.Exports)
	assert.Equal(t, 79000.0, *y2022.Exports)
}

func TestTimeseries_InjectsCaloriesUnscaled(t *testing.T) {
	records := buildTimeseries(t, Options{})

	wheat := findSeries(records, "World", "Wheat and products")
	require.NotNil(t, wheat)
	require.Len(t, wheat.Data, 1)
	require.NotNil(t, wheat.Data[0].FoodSupplyKcal)
	assert.Equal(t, 310.5, *wheat.Data[0].FoodSupplyKcal)
	require.NotNil(t, wheat.Data[0].Production)
	assert.Equal(t, 800000.0, *wheat.Data[0].Production)

	soy := findSeries(records, "Brazil", "Soyabeans")
	require.NotNil(t, soy)
	require.NotNil(t, soy.Data[1].FoodSupplyKcal)
	assert.Equal(t, 150.5, *soy.Data[1].FoodSupplyKcal)

	// 2021 had no calorie row for this pair.
	assert.Nil(t, soy.Data[0].FoodSupplyKcal)
}

func TestTimeseries_AbsentMetricsStayNil(t *testing.T) {
	records := buildTimeseries(t, Options{})

	soy := findSeries(records, "Brazil", "Soyabeans")
	require.NotNil(t, soy)

	y2021 := soy.Data[0]
	assert.Equal(t, 2021, y2021.Year)
	require.NotNil(t, y2021.Production)
	assert.Equal(t, 110000.0, *y2021.Production)
	assert.Nil(t, y2021.Imports)
	assert.Nil(t, y2021.Exports)
	assert.Nil(t, y2021.Feed)
}

func TestTimeseries_SortedByCountryThenItem(t *testing.T) {
	records := buildTimeseries(t, Options{GrandTotal: true})

	require.Len(t, records, 5)
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		less := prev.Country < cur.Country ||
			(prev.Country == cur.Country && prev.Item < cur.Item)
		assert.True(t, less, "records out of order at %d: %v then %v", i, prev, cur)
	}
}

func TestTimeseries_YearsAscending(t *testing.T) {
	records := buildTimeseries(t, Options{GrandTotal: true})

	for _, rec := range records {
		for i := 1; i < len(rec.Data); i++ {
			assert.Less(t, rec.Data[i-1].Year, rec.Data[i].Year,
				"%s/%s years out of order", rec.Country, rec.Item)
		}
	}
}

func TestTimeseries_GrandTotalSynthesis(t *testing.T) {
	records := buildTimeseries(t, Options{GrandTotal: true})

	gt := findSeries(records, "Brazil", "Grand Total")
	require.NotNil(t, gt)
	assert.Equal(t, "kcal/capita/day", gt.Unit)
	require.Len(t, gt.Data, 2)

	y2021 := gt.Data[0]
	assert.Equal(t, 2021, y2021.Year)
	require.NotNil(t, y2021.FoodSupplyKcal)
	assert.Equal(t, 3050.0, *y2021.FoodSupplyKcal)

	// Placeholder zeros keep total-oriented chart code safe; exports stays
	// absent.
	require.NotNil(t, y2021.Production)
	assert.Equal(t, 0.0, *y2021.Production)
	require.NotNil(t, y2021.Imports)
	assert.Equal(t, 0.0, *y2021.Imports)
	require.NotNil(t, y2021.DomesticSupply)
	assert.Equal(t, 0.0, *y2021.DomesticSupply)
	assert.Nil(t, y2021.Exports)

	y2022 := gt.Data[1]
	assert.Equal(t, 2022, y2022.Year)
	require.NotNil(t, y2022.FoodSupplyKcal)
	assert.Equal(t, 3100.0, *y2022.FoodSupplyKcal)
}

func TestTimeseries_GrandTotalDisabled(t *testing.T) {
	records := buildTimeseries(t, Options{GrandTotal: false})

	assert.Nil(t, findSeries(records, "Brazil", "Grand Total"))
	assert.Len(t, records, 4)
}

func TestTimeseries_EmptyInput(t *testing.T) {
	res := buildEmptyPayload(t, "timeseries")
	records, ok := res.Payload.([]TimeseriesRecord)
	require.True(t, ok)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
