package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/ahp/core"
	"github.com/huangsam/ahp/core/agg"
	"github.com/huangsam/ahp/core/algo"
	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
	pub     contract.Publisher
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) submissionStore() (contract.SubmissionStore, error) {
	if h.mgr == nil || h.mgr.GetSubmissionStore() == nil {
		return nil, errors.New("submission store is not configured; start the server with --store-backend")
	}
	return h.mgr.GetSubmissionStore(), nil
}

// submissionInput reads the expert, main and sub arguments shared by several tools.
func submissionInput(request mcp.CallToolRequest) schema.SubmissionInput {
	args := request.GetArguments()
	in := schema.SubmissionInput{
		Expert: request.GetString("expert", ""),
		Main:   args["main"],
	}
	if sub, ok := args["sub"].(map[string]any); ok {
		in.Sub = sub
	}
	return in
}

func (h *toolHandler) handleComputeWeights(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items := request.GetStringSlice("items", nil)
	if len(items) == 0 {
		return mcp.NewToolResultError("items must list at least one label"), nil
	}
	judgments, skipped := schema.ParseJudgments(request.GetArguments()["judgments"])
	g := algo.EvaluateGroup(items, judgments)

	return jsonResult(map[string]any{
		"keys":    g.Keys,
		"weights": g.Weights,
		"cons":    g.Cons,
		"method":  g.Method,
		"skipped": skipped,
	})
}

func (h *toolHandler) handleEvaluateSubmission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ev, err := core.Evaluate(h.baseCfg.Hierarchy, submissionInput(request), time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}

	if request.GetBool("save", false) {
		store, err := h.submissionStore()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := core.SaveSubmission(core.WithQuiet(ctx), store, h.pub, ev.Submission); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("save failed: %v", err)), nil
		}
	}

	return jsonResult(map[string]any{
		"submission": ev.Submission,
		"warnings":   ev.Warnings,
	})
}

func (h *toolHandler) handleLintSubmission(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issues := core.LintInput(h.baseCfg.Hierarchy, "mcp", submissionInput(request))
	if issues == nil {
		issues = []schema.LintIssue{}
	}
	return jsonResult(issues)
}

func (h *toolHandler) handleAggregateExperts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if m := request.GetString("mode", ""); m != "" {
		cfg.Mode = schema.AggregationMode(m)
	}
	if _, ok := schema.ValidAggregationModes[cfg.Mode]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid mode %q", cfg.Mode)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	store, err := h.submissionStore()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	subs, err := store.LatestPerExpert(ctx, cfg.Hierarchy.Name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot load submissions: %v", err)), nil
	}

	ctx = core.WithQuiet(ctx)
	opts := agg.Options{Workers: cfg.Workers, CRThreshold: cfg.CRThreshold}
	c, runID, err := core.RunConsensus(ctx, cfg.Hierarchy, subs, opts, h.mgr.GetConsensusStore())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregation failed: %v", err)), nil
	}
	core.PublishConsensus(ctx, h.pub, runID, c, cfg.ResultLimit)

	c.AIJ.Global = algo.RankGlobal(c.AIJ.Global, cfg.ResultLimit)
	c.AIP.Global = algo.RankGlobal(c.AIP.Global, cfg.ResultLimit)
	if cfg.Mode == schema.BothMode || cfg.Mode == "" {
		return jsonResult(c)
	}
	return jsonResult(map[string]any{
		"questionnaire": c.Questionnaire,
		"expert_count":  c.ExpertCount,
		"computed_at":   c.ComputedAt,
		"mode":          cfg.Mode,
		"result":        c.ResultFor(cfg.Mode),
		"diagnostics":   c.Diagnostics,
	})
}

func (h *toolHandler) handleListSubmissions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := h.baseCfg.ResultLimit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = min(l, contract.MaxResultLimit)
	}

	store, err := h.submissionStore()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summaries, err := store.List(ctx, request.GetString("expert", ""), limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot list submissions: %v", err)), nil
	}
	if summaries == nil {
		summaries = []schema.SubmissionSummary{}
	}
	return jsonResult(summaries)
}
