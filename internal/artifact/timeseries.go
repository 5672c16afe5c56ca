package artifact

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/d2-nutrition/fao-cli/internal/fao"
)

// grandTotalItem is FAO's all-items pseudo commodity. It carries the only
// legitimate per-country calorie total; summing food_supply_kcal across
// items would fabricate one.
const grandTotalItem = "Grand Total"

type seriesKey struct {
	country string
	item    string
}

// TimeseriesBuilder assembles the per-(country, item) yearly series with
// unit rescaling and calorie injection.
type TimeseriesBuilder struct{}

func (b *TimeseriesBuilder) Name() string     { return "timeseries" }
func (b *TimeseriesBuilder) Filename() string { return "timeseries.json" }

func (b *TimeseriesBuilder) Build(ctx context.Context, in *Input) (*BuildResult, error) {
	log := zap.L().With(zap.String("artifact", b.Name()))

	groups := make(map[seriesKey]map[int]*YearRecord)
	unpublished := 0
	for _, o := range in.Filtered {
		metric := fao.NormalizeElement(o.Element)

		key := seriesKey{country: o.Area, item: o.Item}
		years := groups[key]
		if years == nil {
			years = make(map[int]*YearRecord)
			groups[key] = years
		}
		rec := years[o.Year]
		if rec == nil {
			rec = &YearRecord{Year: o.Year}
			years[o.Year] = rec
		}

		if !rec.set(metric, o.Value*in.Units.Scale(metric)) {
			unpublished++
		}
	}
	if unpublished > 0 {
		log.Warn("dropped observations outside the published metric set",
			zap.Int("count", unpublished))
	}

	records := make([]TimeseriesRecord, 0, len(groups))
	kcalInjected := 0
	for key, years := range groups {
		data := make([]YearRecord, 0, len(years))
		for year, rec := range years {
			// Calorie values are intensive per-capita quantities; they are
			// injected as-is, never scaled.
			if v, ok := in.Calories[fao.CalorieKey{Area: key.country, Item: key.item, Year: year}]; ok {
				rec.FoodSupplyKcal = ptrFloat(v)
				kcalInjected++
			}
			data = append(data, *rec)
		}
		sort.Slice(data, func(i, j int) bool { return data[i].Year < data[j].Year })

		records = append(records, TimeseriesRecord{
			Country: key.country,
			Item:    key.item,
			Unit:    in.Units.BaseUnit,
			Data:    data,
		})
	}

	if in.Options.GrandTotal {
		records = append(records, b.grandTotals(in, groups)...)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Country != records[j].Country {
			return records[i].Country < records[j].Country
		}
		return records[i].Item < records[j].Item
	})

	log.Info("assembled timeseries",
		zap.Int("records", len(records)),
		zap.Int("kcal_injected", kcalInjected))
	return &BuildResult{Payload: records, Records: len(records)}, nil
}

// grandTotals synthesizes one record per country from FAO's Grand Total
// calorie rows. Grand Total carries no allow-listed element, so grouping
// alone never emits it. The placeholders keep the dashboard's mass-metric
// accessors total-safe.
func (b *TimeseriesBuilder) grandTotals(in *Input, groups map[seriesKey]map[int]*YearRecord) []TimeseriesRecord {
	byCountry := make(map[string][]YearRecord)
	for key, v := range in.Calories {
		if key.Item != grandTotalItem {
			continue
		}
		if _, exists := groups[seriesKey{country: key.Area, item: grandTotalItem}]; exists {
			continue
		}
		byCountry[key.Area] = append(byCountry[key.Area], YearRecord{
			Year:           key.Year,
			Production:     ptrFloat(0),
			Imports:        ptrFloat(0),
			DomesticSupply: ptrFloat(0),
			FoodSupplyKcal: ptrFloat(v),
		})
	}

	records := make([]TimeseriesRecord, 0, len(byCountry))
	for country, data := range byCountry {
		sort.Slice(data, func(i, j int) bool { return data[i].Year < data[j].Year })
		records = append(records, TimeseriesRecord{
			Country: country,
			Item:    grandTotalItem,
			Unit:    in.Units.TargetUnit(fao.MetricKcal),
			Data:    data,
		})
	}
	return records
}

func ptrFloat(f float64) *float64 {
	return &f
}
