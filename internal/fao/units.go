package fao

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed units.yaml
var unitsYAML []byte

// UnitSpec declares how one metric's source values map to published values.
type UnitSpec struct {
	Metric     string  `yaml:"metric"`
	SourceUnit string  `yaml:"source_unit"`
	TargetUnit string  `yaml:"target_unit"`
	Scale      float64 `yaml:"scale"`
}

// UnitTable is the per-metric unit policy for published artifacts. Metrics
// absent from the table pass through with scale 1.
type UnitTable struct {
	BaseUnit string     `yaml:"base_unit"`
	Metrics  []UnitSpec `yaml:"metrics"`

	byMetric map[string]UnitSpec
}

// DefaultUnitTable parses the embedded unit policy.
func DefaultUnitTable() (UnitTable, error) {
	var t UnitTable
	if err := yaml.Unmarshal(unitsYAML, &t); err != nil {
		return UnitTable{}, eris.Wrap(err, "fao: parse unit table")
	}
	t.byMetric = make(map[string]UnitSpec, len(t.Metrics))
	for _, spec := range t.Metrics {
		if spec.Scale == 0 {
			return UnitTable{}, eris.Errorf("fao: metric %q has zero scale", spec.Metric)
		}
		t.byMetric[spec.Metric] = spec
	}
	return t, nil
}

// Spec returns the unit policy for a metric key.
func (t UnitTable) Spec(metric string) (UnitSpec, bool) {
	spec, ok := t.byMetric[metric]
	return spec, ok
}

// Scale returns the multiplicative factor applied when publishing a metric.
func (t UnitTable) Scale(metric string) float64 {
	if spec, ok := t.byMetric[metric]; ok {
		return spec.Scale
	}
	return 1
}

// TargetUnit returns the published unit label for a metric, or the empty
// string for unlisted metrics.
func (t UnitTable) TargetUnit(metric string) string {
	if spec, ok := t.byMetric[metric]; ok {
		return spec.TargetUnit
	}
	return ""
}
