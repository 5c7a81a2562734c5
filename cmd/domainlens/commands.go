package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/domainlens/domainlens/pkg/engine"
	"github.com/domainlens/domainlens/pkg/enrich"
	"github.com/domainlens/domainlens/pkg/httpapi"
	"github.com/domainlens/domainlens/pkg/mcpserver"
)

var rootCmd = &cobra.Command{
	Use:   "domainlens",
	Short: "Static analysis engine that infers domain models, business rules, and blast radius",
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}

func newEngine() *engine.Engine {
	var opts []engine.Option
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		if p, err := enrich.NewGeminiProvider(context.Background(), key, os.Getenv("GEMINI_MODEL")); err == nil {
			opts = append(opts, engine.WithEnrichProvider(p))
		} else {
			slog.Warn("gemini enrichment disabled", "error", err)
		}
	} else if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if p, err := enrich.NewOpenAIProvider(key, os.Getenv("OPENAI_MODEL")); err == nil {
			opts = append(opts, engine.WithEnrichProvider(p))
		} else {
			slog.Warn("openai enrichment disabled", "error", err)
		}
	}
	return engine.New(opts...)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <project-path>",
	Short: "Run the full pipeline over a project and print the technical report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := newEngine()
		report, err := e.Analyze(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		return printJSON(report)
	},
}

var impactRuleID string

var impactCmd = &cobra.Command{
	Use:   "impact <project-path>",
	Short: "Simulate the blast radius of changing one named business rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if impactRuleID == "" {
			return fmt.Errorf("--rule is required")
		}
		e := newEngine()
		result, err := e.SimulateRuleImpact(cmd.Context(), args[0], impactRuleID)
		if err != nil {
			return fmt.Errorf("impact: %w", err)
		}
		return printJSON(result)
	},
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := httpapi.NewServer(newEngine())
		slog.Info("starting HTTP API server", "addr", serveAddr)
		return srv.Run(serveAddr)
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpserver.Run(cmd.Context(), newEngine())
	},
}

func init() {
	impactCmd.Flags().StringVar(&impactRuleID, "rule", "", "identifier of the rule to simulate, as returned by analyze")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":"+port, "address to listen on")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
