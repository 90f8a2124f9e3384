package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/chartpulse/chartpulse/internal/contract"
	"github.com/chartpulse/chartpulse/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleGetTopMovers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := strings.TrimSpace(request.GetString("date", ""))
	if len(date) != 8 {
		return mcp.NewToolResultError("date is required in compact YYYYMMDD form"), nil
	}

	var report schema.MoversReport
	ok, err := h.mgr.GetRankStore().GetReport(schema.MoversReportKey(date), &report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report read failed: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("No movers report for %s.", date)), nil
	}

	if country := request.GetString("country", ""); country != "" {
		cc := schema.NormalizeCountry(country)
		filtered := schema.MoversReport{}
		if data, exists := report[cc]; exists {
			filtered[cc] = data
		}
		report = filtered
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetLatestSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	country, platform, chart, errResult := h.tripleArgs(request)
	if errResult != nil {
		return errResult, nil
	}

	snap, ok, err := h.mgr.GetRankStore().GetLatest(country, platform, chart)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot read failed: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("No snapshot for %s %s %s.", country, platform, chart)), nil
	}

	jsonData, _ := json.MarshalIndent(snap, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCategoryBreakdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	country, platform, chart, errResult := h.tripleArgs(request)
	if errResult != nil {
		return errResult, nil
	}

	snap, ok, err := h.mgr.GetRankStore().GetLatest(country, platform, chart)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot read failed: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("No snapshot for %s %s %s.", country, platform, chart)), nil
	}

	breakdown := map[string]any{
		"date":                snap.Date,
		"type_counts":         snap.TypeCounts,
		"type_counts_ai":      snap.TypeCountsAI,
		"type_percentages_ai": snap.TypePercentagesAI,
	}
	jsonData, _ := json.MarshalIndent(breakdown, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetUpdateEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := strings.TrimSpace(request.GetString("date", ""))
	if len(date) != 8 {
		return mcp.NewToolResultError("date is required in compact YYYYMMDD form"), nil
	}

	var report schema.UpdatesReport
	ok, err := h.mgr.GetRankStore().GetReport(schema.UpdatesReportKey(date), &report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report read failed: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("No updates report for %s.", date)), nil
	}

	if country := request.GetString("country", ""); country != "" {
		cc := schema.NormalizeCountry(country)
		filtered := schema.UpdatesReport{}
		if data, exists := report[cc]; exists {
			filtered[cc] = data
		}
		report = filtered
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// tripleArgs parses and validates the shared country/platform/chart arguments.
func (h *toolHandler) tripleArgs(request mcp.CallToolRequest) (string, schema.Platform, schema.Chart, *mcp.CallToolResult) {
	country := schema.NormalizeCountry(request.GetString("country", ""))

	platform := schema.Platform(request.GetString("platform", string(schema.IOSPlatform)))
	if _, ok := schema.ValidPlatforms[platform]; !ok {
		return "", "", "", mcp.NewToolResultError(fmt.Sprintf("invalid platform %q: must be ios or gp", platform))
	}

	chart := schema.Chart(request.GetString("chart", string(schema.TopGrossingChart)))
	if _, ok := schema.ValidCharts[chart]; !ok {
		return "", "", "", mcp.NewToolResultError(fmt.Sprintf("invalid chart %q", chart))
	}

	return country, platform, chart, nil
}
