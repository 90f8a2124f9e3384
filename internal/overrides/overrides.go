// Package overrides pulls human-curated category overrides from an HTTP
// JSON endpoint.
package overrides

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// overrideRecord is one entry in the list-shaped payload form.
type overrideRecord struct {
	AppID    string `json:"app_id"`
	Category string `json:"category"`
}

// Client fetches the full override mapping from an endpoint that serves
// either {"app_id": "category", ...} or [{"app_id": ..., "category": ...}].
type Client struct {
	url    string
	client *http.Client
}

var _ contract.OverrideSource = &Client{} // Compile-time check

// NewClient creates an override client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: contract.DefaultHTTPTimeout},
	}
}

// FetchOverrides downloads the override mapping. Entries with a blank app id
// or a label outside the fixed category set are dropped; anything that gets
// through here flows unvalidated into snapshots and histograms.
func (c *Client) FetchOverrides(ctx context.Context) (map[string]schema.Category, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build overrides request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overrides: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overrides endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides payload: %w", err)
	}

	return parsePayload(body)
}

// parsePayload accepts both the map and list payload shapes.
func parsePayload(body []byte) (map[string]schema.Category, error) {
	overrides := make(map[string]schema.Category)

	var asMap map[string]string
	if err := json.Unmarshal(body, &asMap); err == nil {
		for appID, category := range asMap {
			addOverride(overrides, appID, category)
		}
		return overrides, nil
	}

	var asList []overrideRecord
	if err := json.Unmarshal(body, &asList); err != nil {
		return nil, fmt.Errorf("failed to decode overrides payload: %w", err)
	}
	for _, record := range asList {
		addOverride(overrides, record.AppID, record.Category)
	}
	return overrides, nil
}

func addOverride(overrides map[string]schema.Category, appID, category string) {
	appID = strings.TrimSpace(appID)
	label := schema.Category(strings.TrimSpace(category))
	if appID == "" || !schema.IsValidCategory(label) {
		return
	}
	overrides[appID] = label
}
