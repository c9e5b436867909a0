package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/ahp/core/agg"
	"github.com/huangsam/ahp/core/algo"
	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/internal/outwriter"
	"github.com/huangsam/ahp/schema"
)

// LatestPerExpert keeps the last submission of every expert, in order of first appearance.
func LatestPerExpert(subs []schema.Submission) []schema.Submission {
	index := make(map[string]int, len(subs))
	var out []schema.Submission
	for _, s := range subs {
		if i, ok := index[s.Expert]; ok {
			out[i] = s
			continue
		}
		index[s.Expert] = len(out)
		out = append(out, s)
	}
	return out
}

// CollectSubmissions gathers the aggregation snapshot: the latest stored
// submission per expert, or the evaluated input files.
func CollectSubmissions(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.Submission, error) {
	if cfg.FromStore {
		store, err := submissionStore(mgr)
		if err != nil {
			return nil, err
		}
		subs, err := store.LatestPerExpert(ctx, cfg.Hierarchy.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to load stored submissions: %w", err)
		}
		return subs, nil
	}

	evals, err := EvaluateFiles(ctx, cfg)
	if err != nil {
		return nil, err
	}
	subs := make([]schema.Submission, len(evals))
	for i, ev := range evals {
		subs[i] = ev.Submission
	}
	return LatestPerExpert(subs), nil
}

// RunConsensus aggregates subs and records the run in store when one is given.
// Tracking failures are logged, never fatal; the returned run ID is 0 when
// nothing was recorded.
func RunConsensus(ctx context.Context, h schema.Hierarchy, subs []schema.Submission, opts agg.Options, store contract.ConsensusStore) (schema.Consensus, int64, error) {
	start := nowFrom(ctx)

	var runID int64
	if store != nil {
		id, err := store.BeginRun(start, map[string]any{
			"questionnaire": h.Name,
			"submissions":   len(subs),
			"cr_threshold":  opts.CRThreshold,
			"workers":       opts.Workers,
		})
		if err != nil {
			logTrackingError(ctx, "BeginRun", err)
		} else {
			runID = id
		}
	}

	c, err := agg.BuildConsensus(ctx, h, subs, opts)
	if err != nil {
		if runID > 0 {
			if endErr := store.EndRun(runID, nowFrom(ctx), 0); endErr != nil {
				logTrackingError(ctx, "EndRun", endErr)
			}
		}
		return schema.Consensus{}, runID, err
	}
	c.ComputedAt = start.UTC()
	c.AIJ.Global = algo.RankGlobal(c.AIJ.Global, 0)
	c.AIP.Global = algo.RankGlobal(c.AIP.Global, 0)

	if runID > 0 {
		for _, mode := range []schema.AggregationMode{schema.AIJMode, schema.AIPMode} {
			if err := store.RecordWeights(runID, mode, c.ResultFor(mode).Global); err != nil {
				logTrackingError(ctx, "RecordWeights", err)
			}
		}
		if err := store.EndRun(runID, nowFrom(ctx), c.ExpertCount); err != nil {
			logTrackingError(ctx, "EndRun", err)
		}
	}
	return c, runID, nil
}

// PublishConsensus announces a finished consensus run. The event is best effort.
func PublishConsensus(ctx context.Context, pub contract.Publisher, runID int64, c schema.Consensus, limit int) {
	if pub == nil {
		return
	}
	event := schema.ConsensusCompletedEvent{
		RunID:         runID,
		Questionnaire: c.Questionnaire,
		ExpertCount:   c.ExpertCount,
		ComputedAt:    c.ComputedAt,
		TopGlobal:     algo.RankGlobal(c.AIJ.Global, limit),
	}
	if err := pub.Publish(ctx, schema.SubjectConsensusCompleted, event); err != nil {
		logTrackingError(ctx, "Publish", err)
	}
}

// ExecuteAggregate builds a consensus across experts, records it and prints both aggregation modes.
func ExecuteAggregate(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, pub contract.Publisher) error {
	start := time.Now()

	subs, err := CollectSubmissions(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	opts := agg.Options{Workers: cfg.Workers, CRThreshold: cfg.CRThreshold}
	c, runID, err := RunConsensus(ctx, cfg.Hierarchy, subs, opts, consensusStore(mgr))
	if err != nil {
		return err
	}
	PublishConsensus(ctx, pub, runID, c, cfg.ResultLimit)

	return outwriter.NewOutWriter().WriteConsensus(c, cfg, time.Since(start))
}

// submissionStore returns the configured submission store or an error when persistence is off.
func submissionStore(mgr contract.StoreManager) (contract.SubmissionStore, error) {
	if mgr == nil || mgr.GetSubmissionStore() == nil {
		return nil, fmt.Errorf("submission store is not initialized; check --store-backend")
	}
	return mgr.GetSubmissionStore(), nil
}

// consensusStore returns the configured consensus store, or nil when tracking is off.
func consensusStore(mgr contract.StoreManager) contract.ConsensusStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetConsensusStore()
}

// logTrackingError logs run tracking failures consistently.
func logTrackingError(ctx context.Context, operation string, err error) {
	if isQuiet(ctx) {
		return
	}
	contract.LogWarn(fmt.Sprintf("Consensus tracking failed (%s)", operation), err)
}
