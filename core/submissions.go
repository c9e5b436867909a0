package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/internal/outwriter"
	"github.com/huangsam/ahp/schema"
)

// ExecuteSubmissionsList prints stored submissions, newest first.
func ExecuteSubmissionsList(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, expert string) error {
	store, err := submissionStore(mgr)
	if err != nil {
		return err
	}
	summaries, err := store.List(ctx, expert, cfg.ResultLimit)
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}
	return outwriter.NewOutWriter().WriteSubmissionList(summaries, cfg)
}

// ExecuteSubmissionShow prints one stored submission with its full result.
func ExecuteSubmissionShow(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, id string) error {
	start := time.Now()
	store, err := submissionStore(mgr)
	if err != nil {
		return err
	}
	sub, err := store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get submission %s: %w", id, err)
	}
	return outwriter.NewOutWriter().WriteSubmissions([]schema.Submission{sub}, cfg, time.Since(start))
}

// ExecuteSubmissionDelete removes one stored submission.
func ExecuteSubmissionDelete(ctx context.Context, mgr contract.StoreManager, id string) error {
	store, err := submissionStore(mgr)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete submission %s: %w", id, err)
	}
	return nil
}
