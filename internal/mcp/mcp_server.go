// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/chartpulse/chartpulse/internal/contract"
)

// NewMCPServer initializes and configures the ChartPulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"ChartPulse Analytics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_top_movers ---
	s.AddTool(mcp.NewTool("get_top_movers",
		mcp.WithDescription("Get the apps with the largest rank swings for a date, across countries, platforms and charts."),
		mcp.WithString("date", mcp.Description("Compact date of the report, e.g. 20250102."), mcp.Required()),
		mcp.WithString("country", mcp.Description("Optional 2-letter country filter, e.g. TW.")),
	), h.handleGetTopMovers)

	// --- 2. Tool: get_latest_snapshot ---
	s.AddTool(mcp.NewTool("get_latest_snapshot",
		mcp.WithDescription("Get the most recent ranked snapshot for a country, platform and chart."),
		mcp.WithString("country", mcp.Description("2-letter country code, e.g. TW."), mcp.Required()),
		mcp.WithString("platform", mcp.Description("App store platform."), mcp.Enum("ios", "gp")),
		mcp.WithString("chart", mcp.Description("Ranking chart type."), mcp.Enum("top_grossing", "top_free", "top_other")),
	), h.handleGetLatestSnapshot)

	// --- 3. Tool: get_category_breakdown ---
	s.AddTool(mcp.NewTool("get_category_breakdown",
		mcp.WithDescription("Get the category distribution of the most recent snapshot for a country, platform and chart."),
		mcp.WithString("country", mcp.Description("2-letter country code, e.g. TW."), mcp.Required()),
		mcp.WithString("platform", mcp.Description("App store platform."), mcp.Enum("ios", "gp")),
		mcp.WithString("chart", mcp.Description("Ranking chart type."), mcp.Enum("top_grossing", "top_free", "top_other")),
	), h.handleGetCategoryBreakdown)

	// --- 4. Tool: get_update_events ---
	s.AddTool(mcp.NewTool("get_update_events",
		mcp.WithDescription("Get detected app version updates for a date, across countries, platforms and charts."),
		mcp.WithString("date", mcp.Description("Compact date of the report, e.g. 20250102."), mcp.Required()),
		mcp.WithString("country", mcp.Description("Optional 2-letter country filter, e.g. TW.")),
	), h.handleGetUpdateEvents)

	return s
}

// StartMCPServer starts the ChartPulse MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
