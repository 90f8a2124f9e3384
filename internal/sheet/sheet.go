// Package sheet fetches ranking rows from an opensheet-style JSON endpoint
// that exposes one object per spreadsheet row.
package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// Source column headers. The sheet is maintained in Traditional Chinese.
const (
	dateColumn        = "日期"
	platformColumn    = "平台"
	countryColumn     = "國家"
	chartColumn       = "排行榜類別"
	appIDColumn       = "遊戲ID編碼"
	appNameColumn     = "遊戲名稱"
	developerColumn   = "開發商"
	genreColumn       = "子類別"
	rankColumn        = "排名"
	overallRankColumn = "總榜排名"
)

// defaultGenre is assumed when the source omits the sub-category.
const defaultGenre = "Games"

// Client reads ranking rows from a sheet endpoint.
type Client struct {
	url    string
	client *http.Client
}

var _ contract.SheetSource = &Client{} // Compile-time check

// NewClient creates a sheet client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchRows downloads the sheet and parses it into chart rows. Rows without
// a parsable date are dropped; everything else is normalized best-effort.
func (c *Client) FetchRows(ctx context.Context) ([]schema.RawChartRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build sheet request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet endpoint returned status %d", resp.StatusCode)
	}

	var records []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode sheet payload: %w", err)
	}

	rows := make([]schema.RawChartRow, 0, len(records))
	for _, record := range records {
		row, ok := parseRecord(record)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseRecord converts one sheet record into a chart row. Returns false when
// the record has no usable date.
func parseRecord(record map[string]any) (schema.RawChartRow, bool) {
	date, err := contract.ParseSourceDate(field(record, dateColumn))
	if err != nil {
		return schema.RawChartRow{}, false
	}

	rank := safeInt(record[rankColumn], 0)
	if rank == 0 {
		rank = safeInt(record[overallRankColumn], 0)
	}

	genre := field(record, genreColumn)
	if genre == "" {
		genre = defaultGenre
	}

	return schema.RawChartRow{
		Date:      date.Format(schema.DateKeyFormat),
		Platform:  schema.NormalizePlatform(field(record, platformColumn)),
		Country:   schema.NormalizeCountry(field(record, countryColumn)),
		Chart:     schema.NormalizeChart(field(record, chartColumn)),
		AppID:     field(record, appIDColumn),
		AppName:   field(record, appNameColumn),
		Developer: field(record, developerColumn),
		Genre:     genre,
		Rank:      rank,
	}, true
}

// field returns the trimmed string value of a column.
func field(record map[string]any, column string) string {
	v, ok := record[column]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// safeInt coerces a cell value into an int, tolerating float formatting like
// "12.0" that spreadsheets produce. Unparsable input yields the default.
func safeInt(v any, def int) int {
	switch t := v.(type) {
	case nil:
		return def
	case float64:
		return int(math.Trunc(t))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return def
		}
		return int(math.Trunc(f))
	default:
		return def
	}
}
