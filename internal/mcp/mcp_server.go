// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Hackwatch MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.HostClient, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Hackwatch Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	// --- 1. Tool: analyze_submission ---
	s.AddTool(mcp.NewTool("analyze_submission",
		mcp.WithDescription("Analyze one hackathon submission repository for originality signals."),
		mcp.WithString("repo_url", mcp.Description("GitHub or GitLab repository URL."), mcp.Required()),
		mcp.WithString("team", mcp.Description("Team label for the report (defaults to the repository URL).")),
		mcp.WithString("window_start", mcp.Description("Hackathon window start (RFC3339). Defaults to the configured window.")),
		mcp.WithString("window_end", mcp.Description("Hackathon window end (RFC3339). Defaults to the configured window.")),
	), h.handleAnalyzeSubmission)

	// --- 2. Tool: get_runs ---
	s.AddTool(mcp.NewTool("get_runs",
		mcp.WithDescription("List persisted analysis runs with their metadata."),
	), h.handleGetRuns)

	// --- 3. Tool: get_flags ---
	s.AddTool(mcp.NewTool("get_flags",
		mcp.WithDescription("List persisted originality flags across runs."),
		mcp.WithString("team", mcp.Description("Only return flags for this team.")),
		mcp.WithString("severity", mcp.Description("Only return flags at this severity."), mcp.Enum("LOW", "MEDIUM", "HIGH")),
	), h.handleGetFlags)

	return s
}

// StartMCPServer starts the Hackwatch MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.HostClient, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, client, mgr)
	return server.ServeStdio(s)
}
