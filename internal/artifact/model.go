package artifact

import "github.com/d2-nutrition/fao-cli/internal/fao"

// TimeseriesRecord is the published per-(country, item) series.
type TimeseriesRecord struct {
	Country string       `json:"country"`
	Item    string       `json:"item"`
	Unit    string       `json:"unit"`
	Data    []YearRecord `json:"data"`
}

// YearRecord carries one year of metrics for a (country, item) pair.
// Pointer fields distinguish "absent from source" (nil, omitted from the
// JSON) from a measured zero.
type YearRecord struct {
	Year           int      `json:"year"`
	Production     *float64 `json:"production,omitempty"`
	Imports        *float64 `json:"imports,omitempty"`
	Exports        *float64 `json:"exports,omitempty"`
	DomesticSupply *float64 `json:"domestic_supply,omitempty"`
	Feed           *float64 `json:"feed,omitempty"`
	Protein        *float64 `json:"protein,omitempty"`
	ProteinGPCD    *float64 `json:"protein_gpcd,omitempty"`
	Fat            *float64 `json:"fat,omitempty"`
	FatGPCD        *float64 `json:"fat_gpcd,omitempty"`
	Processing     *float64 `json:"processing,omitempty"`
	FoodSupplyKcal *float64 `json:"food_supply_kcal,omitempty"`
}

// set assigns a normalized metric value, reporting whether the key is part
// of the published schema.
func (r *YearRecord) set(metric string, v float64) bool {
	switch metric {
	case fao.MetricProduction:
		r.Production = &v
	case fao.MetricImports:
		r.Imports = &v
	case fao.MetricExports:
		r.Exports = &v
	case fao.MetricDomesticSupply:
		r.DomesticSupply = &v
	case fao.MetricFeed:
		r.Feed = &v
	case fao.MetricProtein:
		r.Protein = &v
	case fao.MetricProteinGPCD:
		r.ProteinGPCD = &v
	case fao.MetricFat:
		r.Fat = &v
	case fao.MetricFatGPCD:
		r.FatGPCD = &v
	case fao.MetricProcessing:
		r.Processing = &v
	case fao.MetricKcal:
		r.FoodSupplyKcal = &v
	default:
		return false
	}
	return true
}

// ItemRanking lists the top producers of one item for the ranking year.
type ItemRanking struct {
	Item      string     `json:"item"`
	Unit      string     `json:"unit"`
	Year      int        `json:"year"`
	Producers []Producer `json:"producers"`
}

// Producer is one ranked row in an ItemRanking.
type Producer struct {
	Country    string  `json:"country"`
	Production float64 `json:"production"`
	Rank       int     `json:"rank"`
}

// TradeBalance is the import/export balance of one (country, item, year).
// Values stay in source magnitudes.
type TradeBalance struct {
	Country      string  `json:"country"`
	Item         string  `json:"item"`
	Year         int     `json:"year"`
	Unit         string  `json:"unit"`
	Imports      float64 `json:"imports"`
	Exports      float64 `json:"exports"`
	TradeBalance float64 `json:"trade_balance"`
	NetImporter  bool    `json:"net_importer"`
}

// Summary aggregates global totals for overview dashboards.
type Summary struct {
	GlobalYearlyTotals    []YearlyTotals `json:"global_yearly_totals"`
	TopProducingCountries []CountryTotal `json:"top_producing_countries"`
	TopProducedItems      []ItemTotal    `json:"top_produced_items"`
}

// YearlyTotals sums the four core elements across all countries for one year.
type YearlyTotals struct {
	Year           int     `json:"year"`
	Production     float64 `json:"production"`
	Imports        float64 `json:"imports"`
	Exports        float64 `json:"exports"`
	DomesticSupply float64 `json:"domestic_supply"`
}

// CountryTotal is a country's summed production across all items and years.
type CountryTotal struct {
	Country         string  `json:"country"`
	TotalProduction float64 `json:"total_production"`
}

// ItemTotal is an item's summed production across all countries and years.
type ItemTotal struct {
	Item            string  `json:"item"`
	TotalProduction float64 `json:"total_production"`
}

// Network is the trade-flow graph for flow diagrams. Link weights are
// synthesized estimates, not measured bilateral trade.
type Network struct {
	Nodes []NetworkNode `json:"nodes"`
	Links []NetworkLink `json:"links"`
}

// NetworkNode is one trading country.
type NetworkNode struct {
	ID               string  `json:"id"`
	Index            int     `json:"index"`
	TotalTradeVolume float64 `json:"total_trade_volume"`
	Type             string  `json:"type"`
}

// NetworkLink is a synthesized edge between a top exporter and a top
// importer of one item.
type NetworkLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
	Item   string  `json:"item"`
}

// Metadata summarizes the published dataset.
type Metadata struct {
	GeneratedAt   string        `json:"generated_at"`
	DataSummary   DataSummary   `json:"data_summary"`
	DataStructure DataStructure `json:"data_structure"`
	Notes         MetadataNotes `json:"notes"`
}

// DataSummary counts records and enumerates dimension values.
type DataSummary struct {
	TotalRecords int      `json:"total_records"`
	KcalRecords  int      `json:"kcal_records"`
	Years        []int    `json:"years"`
	Countries    []string `json:"countries"`
	FoodItems    []string `json:"food_items"`
	Elements     []string `json:"elements"`
	Units        []string `json:"units"`
}

// DataStructure describes the artifact layout for dashboard developers.
type DataStructure struct {
	Timeseries string            `json:"timeseries"`
	Metrics    map[string]string `json:"metrics"`
}

// MetadataNotes carries free-form caveats.
type MetadataNotes struct {
	FoodSupplyKcal string `json:"food_supply_kcal"`
	Validation     string `json:"validation"`
}

// Index is the artifact manifest the dashboard loads first.
type Index struct {
	Files       IndexFiles `json:"files"`
	Description string     `json:"description"`
	Version     string     `json:"version"`
	Usage       IndexUsage `json:"usage"`
	Notes       IndexNotes `json:"notes"`
}

// IndexFiles names the artifact files.
type IndexFiles struct {
	Metadata   string `json:"metadata"`
	Timeseries string `json:"timeseries"`
	Rankings   string `json:"rankings"`
	Trade      string `json:"trade"`
	Summary    string `json:"summary"`
	Network    string `json:"network"`
}

// IndexUsage maps each artifact to its intended chart type.
type IndexUsage struct {
	Timeseries string `json:"timeseries"`
	Rankings   string `json:"rankings"`
	Trade      string `json:"trade"`
	Summary    string `json:"summary"`
	Network    string `json:"network"`
}

// IndexNotes carries free-form caveats about the artifact set.
type IndexNotes struct {
	FoodSupplyKcal string `json:"food_supply_kcal"`
	GrandTotal     string `json:"grand_total"`
	Backup         string `json:"backup"`
}
