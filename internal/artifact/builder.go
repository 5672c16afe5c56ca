package artifact

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/d2-nutrition/fao-cli/internal/fao"
)

// Options tunes artifact construction.
type Options struct {
	// GrandTotal synthesizes a per-country "Grand Total" record carrying
	// FAO's own all-items calorie total.
	GrandTotal bool

	// Version is stamped into index.json.
	Version string

	// GeneratedAt is stamped into metadata.json. The engine sets it once
	// per run so all artifacts agree.
	GeneratedAt time.Time
}

// Input is the immutable, already-filtered source every builder consumes.
type Input struct {
	Filtered []fao.Observation
	Calories map[fao.CalorieKey]float64
	KcalRows int
	Rules    fao.Rules
	Units    fao.UnitTable
	Options  Options
}

// NewInput applies the filter rules to raw observations and prepares the
// shared builder input.
func NewInput(obs []fao.Observation, rules fao.Rules, units fao.UnitTable, opts Options) *Input {
	kcalRows := 0
	for _, o := range obs {
		if o.Element == fao.ElementKcal && rules.KeepArea(o.Area) && rules.KeepYear(o.Year) {
			kcalRows++
		}
	}

	return &Input{
		Filtered: fao.Filter(obs, rules),
		Calories: fao.BuildCalorieLookup(obs, rules),
		KcalRows: kcalRows,
		Rules:    rules,
		Units:    units,
		Options:  opts,
	}
}

// BuildResult carries one artifact's payload and its record count.
type BuildResult struct {
	// Payload is the JSON-serializable artifact body.
	Payload any

	// Records counts the rows or entries the payload carries.
	Records int
}

// Builder produces one artifact payload from the shared input.
type Builder interface {
	// Name returns the unique identifier for this artifact (e.g., "timeseries").
	Name() string

	// Filename returns the output file name (e.g., "timeseries.json").
	Filename() string

	// Build computes the artifact payload.
	Build(ctx context.Context, in *Input) (*BuildResult, error)
}

// Registry maps artifact names to their builders.
type Registry struct {
	builders map[string]Builder
	order    []string // registration order for deterministic iteration
}

// NewRegistry creates a registry populated with the full artifact set.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}

	r.Register(&TimeseriesBuilder{})
	r.Register(&RankingsBuilder{})
	r.Register(&TradeBuilder{})
	r.Register(&SummaryBuilder{})
	r.Register(&NetworkBuilder{})
	r.Register(&MetadataBuilder{})
	r.Register(&IndexBuilder{})

	return r
}

// Register adds a builder to the registry.
func (r *Registry) Register(b Builder) {
	name := b.Name()
	r.builders[name] = b
	r.order = append(r.order, name)
}

// Get returns a builder by name.
func (r *Registry) Get(name string) (Builder, error) {
	b, ok := r.builders[name]
	if !ok {
		return nil, eris.Errorf("artifact: unknown artifact %q", name)
	}
	return b, nil
}

// Select returns the named builders, or all of them when names is empty,
// in registration order.
func (r *Registry) Select(names []string) ([]Builder, error) {
	if len(names) == 0 {
		return r.All(), nil
	}

	result := make([]Builder, 0, len(names))
	for _, name := range names {
		b, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, nil
}

// All returns all builders in registration order.
func (r *Registry) All() []Builder {
	result := make([]Builder, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.builders[name])
	}
	return result
}

// AllNames returns all registered artifact names in registration order.
func (r *Registry) AllNames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
