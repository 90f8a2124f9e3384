package schema

// AppMetadata is one app's version metadata from the external lookup service.
type AppMetadata struct {
	Version      string `json:"version"`
	Updated      string `json:"updated"` // Release timestamp as reported by the service
	ReleaseNotes string `json:"releaseNotes"`
	AppID        string `json:"app_id"`
}

// UpdateEvent marks a detected version or release-timestamp change.
type UpdateEvent struct {
	AppName      string `json:"app_name"`
	AppID        string `json:"app_id"`
	Version      string `json:"version"`
	Updated      string `json:"updated"`
	ReleaseNotes string `json:"releaseNotes"`
	Event        string `json:"event"` // Always UpdateEventTag
}

// MetadataBaseline maps app_name to the metadata recorded for it on a given
// (country, platform, chart, date). It is the comparison basis for the next
// run and is superseded by the following date's baseline, never merged.
//
// Known limitation, inherited from the historical data layout: entries are
// keyed by app display name rather than app_id, so a rename or a name
// collision silently produces wrong comparisons. Persisted baselines share
// this keying, so switching keys would orphan existing data.
type MetadataBaseline map[string]AppMetadata

// UpdatesReport aggregates update events for one date across all countries,
// platforms and charts: country -> platform -> chart -> app_name -> event.
type UpdatesReport map[string]map[Platform]map[Chart]map[string]UpdateEvent

// Add inserts an update-event set, creating intermediate maps as needed.
// Country keys are normalized upper-case, same as MoversReport.
func (r UpdatesReport) Add(country string, platform Platform, chart Chart, updates map[string]UpdateEvent) {
	cc := NormalizeCountry(country)
	if r[cc] == nil {
		r[cc] = make(map[Platform]map[Chart]map[string]UpdateEvent)
	}
	if r[cc][platform] == nil {
		r[cc][platform] = make(map[Chart]map[string]UpdateEvent)
	}
	r[cc][platform][chart] = updates
}
