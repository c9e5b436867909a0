// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the AHP MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager, pub contract.Publisher) *server.MCPServer {
	s := server.NewMCPServer(
		"AHP Weighting Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		pub:     pub,
	}

	// --- 1. Tool: compute_weights ---
	s.AddTool(mcp.NewTool("compute_weights",
		mcp.WithDescription("Derive AHP priority weights and consistency (lambda_max, CI, CR) for one set of pairwise comparisons."),
		mcp.WithArray("items", mcp.Description("Ordered labels being compared."), mcp.Required(), mcp.WithStringItems()),
		mcp.WithObject("judgments", mcp.Description(`Pairwise ratios keyed "A ||| B" (A is r times as important as B), or nested as {"A": {"B": r}}.`), mcp.Required()),
	), h.handleComputeWeights)

	// --- 2. Tool: evaluate_submission ---
	s.AddTool(mcp.NewTool("evaluate_submission",
		mcp.WithDescription("Evaluate one expert's answers against the configured questionnaire: main weights, local weights per criterion and the global ranking."),
		mcp.WithString("expert", mcp.Description("Expert name."), mcp.Required()),
		mcp.WithObject("main", mcp.Description("Judgments between the main criteria."), mcp.Required()),
		mcp.WithObject("sub", mcp.Description("Judgments between sub-criteria, keyed by criterion name.")),
		mcp.WithBoolean("save", mcp.Description("Store the evaluated submission. Defaults to false.")),
	), h.handleEvaluateSubmission)

	// --- 3. Tool: lint_submission ---
	s.AddTool(mcp.NewTool("lint_submission",
		mcp.WithDescription("Report unusable, unknown or missing judgments in one expert's answers, with label suggestions."),
		mcp.WithString("expert", mcp.Description("Expert name.")),
		mcp.WithObject("main", mcp.Description("Judgments between the main criteria.")),
		mcp.WithObject("sub", mcp.Description("Judgments between sub-criteria, keyed by criterion name.")),
	), h.handleLintSubmission)

	// --- 4. Tool: aggregate_experts ---
	s.AddTool(mcp.NewTool("aggregate_experts",
		mcp.WithDescription("Build a group consensus from the latest stored submission of every expert."),
		mcp.WithString("mode", mcp.Description("Aggregation rule: aij (judgments), aip (priorities) or both. Defaults to 'both'."), mcp.Enum("aij", "aip", "both")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of global rows returned.")),
	), h.handleAggregateExperts)

	// --- 5. Tool: list_submissions ---
	s.AddTool(mcp.NewTool("list_submissions",
		mcp.WithDescription("List stored submissions, newest first."),
		mcp.WithString("expert", mcp.Description("Only list submissions of this expert.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results.")),
	), h.handleListSubmissions)

	return s
}

// StartMCPServer starts the AHP MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager, pub contract.Publisher) error {
	s := NewMCPServer(baseCfg, mgr, pub)
	return server.ServeStdio(s)
}
