package fao

import "go.uber.org/zap"

// CalorieKey identifies one per-capita calorie observation.
type CalorieKey struct {
	Area string
	Item string
	Year int
}

// BuildCalorieLookup extracts Food supply (kcal/capita/day) observations
// into a single-valued lookup keyed by (area, item, year). The area denylist
// and year range apply; the element allow-list and item exclusions do not,
// so non-commodity items such as "Grand Total" stay available. Duplicate
// keys resolve last-write-wins and are logged.
func BuildCalorieLookup(obs []Observation, rules Rules) map[CalorieKey]float64 {
	log := zap.L().With(zap.String("component", "calories"))

	lookup := make(map[CalorieKey]float64)
	for _, o := range obs {
		if o.Element != ElementKcal {
			continue
		}
		if !rules.KeepArea(o.Area) || !rules.KeepYear(o.Year) {
			continue
		}

		key := CalorieKey{Area: o.Area, Item: o.Item, Year: o.Year}
		if prev, ok := lookup[key]; ok {
			log.Warn("duplicate calorie observation, keeping the later row",
				zap.String("area", o.Area),
				zap.String("item", o.Item),
				zap.Int("year", o.Year),
				zap.Float64("previous", prev),
				zap.Float64("value", o.Value))
		}
		lookup[key] = o.Value
	}
	return lookup
}
