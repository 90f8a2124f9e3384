// Package appmeta looks up per-app version metadata from the iTunes
// lookup API.
package appmeta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// DefaultBaseURL is the production lookup endpoint.
const DefaultBaseURL = "https://itunes.apple.com"

// browserUserAgent is sent on lookup requests; the endpoint throttles
// default Go client agents aggressively.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// lookupResponse mirrors the relevant part of the lookup API payload.
type lookupResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		Version                   string `json:"version"`
		CurrentVersionReleaseDate string `json:"currentVersionReleaseDate"`
		ReleaseNotes              string `json:"releaseNotes"`
	} `json:"results"`
}

// Client queries the lookup API with client-side pacing so a top-50 sweep
// does not trip the endpoint's rate limits.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

var _ contract.MetadataClient = &Client{} // Compile-time check

// NewClient creates a metadata client against the given base URL. An empty
// base URL selects the production endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: contract.DefaultHTTPTimeout},
		limiter: rate.NewLimiter(rate.Every(contract.DefaultLookupWait), 1),
	}
}

// Lookup fetches version metadata for one app. A missing app or a non-200
// response is an error; callers treat lookup errors as "exclude this app".
func (c *Client) Lookup(ctx context.Context, appID string) (*schema.AppMetadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	lookupURL := fmt.Sprintf("%s/lookup?id=%s", c.baseURL, url.QueryEscape(appID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup failed for app %s: %w", appID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup for app %s returned status %d", appID, resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response for app %s: %w", appID, err)
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("no lookup results for app %s", appID)
	}

	item := payload.Results[0]
	return &schema.AppMetadata{
		Version:      item.Version,
		Updated:      item.CurrentVersionReleaseDate,
		ReleaseNotes: item.ReleaseNotes,
		AppID:        appID,
	}, nil
}
