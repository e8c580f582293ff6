package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hackwatch/hackwatch/internal/contract"
	"github.com/hackwatch/hackwatch/internal/pipeline"
	"github.com/hackwatch/hackwatch/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.HostClient
	mgr     contract.StoreManager
}

func (h *toolHandler) handleAnalyzeSubmission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repoURL := strings.TrimSpace(request.GetString("repo_url", ""))
	if repoURL == "" {
		return mcp.NewToolResultError("repo_url is required"), nil
	}
	team := request.GetString("team", "")
	if team == "" {
		team = repoURL
	}

	cfg := h.baseCfg.Clone()
	if ws := request.GetString("window_start", ""); ws != "" {
		start, err := contract.ParseWindowTime(ws, time.UTC)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid window_start: %v", err)), nil
		}
		cfg.Engine.Window.Start = start
	}
	if we := request.GetString("window_end", ""); we != "" {
		end, err := contract.ParseWindowTime(we, time.UTC)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid window_end: %v", err)), nil
		}
		cfg.Engine.Window.End = end
	}

	specs := []contract.RepoSpec{{Team: team, RepoURL: repoURL}}
	reports, err := pipeline.Run(ctx, specs, cfg, h.client, nil, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(reports[0], "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRuns(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.reportStore()
	if store == nil {
		return mcp.NewToolResultError("report store is not initialized"), nil
	}

	runs, err := store.GetRuns()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load runs: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetFlags(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.reportStore()
	if store == nil {
		return mcp.NewToolResultError("report store is not initialized"), nil
	}

	flags, err := store.GetFlags()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load flags: %v", err)), nil
	}

	team := strings.ToLower(strings.TrimSpace(request.GetString("team", "")))
	severity := request.GetString("severity", "")

	filtered := make([]schema.FlagRecord, 0, len(flags))
	for _, f := range flags {
		if team != "" && strings.ToLower(f.Team) != team {
			continue
		}
		if severity != "" && f.Severity != severity {
			continue
		}
		filtered = append(filtered, f)
	}

	jsonData, _ := json.MarshalIndent(filtered, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// reportStore resolves the report store, tolerating a missing manager.
func (h *toolHandler) reportStore() contract.ReportStore {
	if h.mgr == nil {
		return nil
	}
	return h.mgr.GetReportStore()
}
