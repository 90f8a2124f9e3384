package schema

// MoverRecord is one app whose rank swung by at least MoverThreshold
// positions between two adjacent available dates.
type MoverRecord struct {
	Name      string    `json:"name"`
	Delta     int       `json:"delta"`
	Direction Direction `json:"direction"`
}

// MoversReport aggregates movers for one date across all countries,
// platforms and charts: country -> platform -> chart -> movers.
type MoversReport map[string]map[Platform]map[Chart][]MoverRecord

// Add inserts a mover list, creating intermediate maps as needed.
// Country keys are normalized upper-case, same as UpdatesReport.
func (r MoversReport) Add(country string, platform Platform, chart Chart, movers []MoverRecord) {
	cc := NormalizeCountry(country)
	if r[cc] == nil {
		r[cc] = make(map[Platform]map[Chart][]MoverRecord)
	}
	if r[cc][platform] == nil {
		r[cc][platform] = make(map[Chart][]MoverRecord)
	}
	r[cc][platform][chart] = movers
}

// PairResult is the outcome of analyzing one (key, date pair) unit of work.
// Units are accumulated into a flat ordered slice and grouped into reports
// at the end of a run.
type PairResult struct {
	Country   string
	Platform  Platform
	Chart     Chart
	Date      string // Newer date of the pair
	PrevDate  string // Older date of the pair
	Movers    []MoverRecord
	Updates   map[string]UpdateEvent
	Baseline  MetadataBaseline
	Skipped   bool // True when data was missing for the pair
}
