// Package mcpserver exposes pkg/engine.Engine as MCP tools for a downstream
// agent or CI consumer. It is a pure consumer of the engine; nothing in the
// deterministic core imports this package.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/domainlens/domainlens/pkg/engine"
)

// Server wraps an Engine to expose it over MCP.
type Server struct {
	engine *engine.Engine
}

// Run starts the MCP server on Stdio, blocking until the connection closes.
func Run(ctx context.Context, e *engine.Engine) error {
	s := server.NewMCPServer(
		"DomainLens",
		"0.1.0",
		server.WithLogging(),
	)

	ms := &Server{engine: e}

	s.AddTool(
		mcp.NewTool(
			"analyze",
			mcp.WithDescription("Run the full domain analysis pipeline over a project and return the technical report."),
			mcp.WithString("project_path", mcp.Required(), mcp.Description("Filesystem path to the project root")),
		),
		ms.handleAnalyze,
	)

	s.AddTool(
		mcp.NewTool(
			"simulate_impact",
			mcp.WithDescription("Compute the blast radius of changing one named business rule."),
			mcp.WithString("project_path", mcp.Required(), mcp.Description("Filesystem path to the project root")),
			mcp.WithString("rule_id", mcp.Required(), mcp.Description("Identifier of the rule to simulate, as returned by analyze")),
		),
		ms.handleSimulateImpact,
	)

	slog.Info("starting MCP server on stdio")
	return server.ServeStdio(s)
}

func (ms *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	projectPath, ok := args["project_path"].(string)
	if !ok || projectPath == "" {
		return mcp.NewToolResultError("project_path argument required"), nil
	}

	report, err := ms.engine.Analyze(ctx, projectPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analyze failed: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to marshal report"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ms *Server) handleSimulateImpact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	projectPath, ok := args["project_path"].(string)
	if !ok || projectPath == "" {
		return mcp.NewToolResultError("project_path argument required"), nil
	}
	ruleID, ok := args["rule_id"].(string)
	if !ok || ruleID == "" {
		return mcp.NewToolResultError("rule_id argument required"), nil
	}

	result, err := ms.engine.SimulateRuleImpact(ctx, projectPath, ruleID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("simulate_impact failed: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to marshal impact result"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
