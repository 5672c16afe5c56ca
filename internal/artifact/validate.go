package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ValidationReport summarizes a read-back of the written timeseries.
type ValidationReport struct {
	Records        int
	SeriesWithKcal int
	KcalValues     int
}

// Validate reads timeseries.json back from dir and reports calorie
// coverage. It catches torn or empty output before the dashboard does.
func Validate(dir string) (*ValidationReport, error) {
	path := filepath.Join(dir, "timeseries.json")
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "artifact: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	var records []TimeseriesRecord
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, eris.Wrapf(err, "artifact: decode %s", path)
	}
	if len(records) == 0 {
		return nil, eris.Errorf("artifact: %s holds no records", path)
	}

	report := &ValidationReport{Records: len(records)}
	for _, rec := range records {
		series := false
		for _, d := range rec.Data {
			if d.FoodSupplyKcal != nil {
				series = true
				report.KcalValues++
			}
		}
		if series {
			report.SeriesWithKcal++
		}
	}

	zap.L().Info("validated timeseries output",
		zap.Int("records", report.Records),
		zap.Int("series_with_kcal", report.SeriesWithKcal),
		zap.Int("kcal_values", report.KcalValues),
	)
	return report, nil
}
