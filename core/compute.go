package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/internal/outwriter"
	"github.com/huangsam/ahp/schema"
	"golang.org/x/sync/errgroup"
)

// sourcedInput is one submission input and the file it came from.
type sourcedInput struct {
	source string
	input  schema.SubmissionInput
}

// loadInputs reads every file in order. An expert override applies only when
// the files hold exactly one submission.
func loadInputs(paths []string, expertOverride string) ([]sourcedInput, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one submission file is required")
	}
	var inputs []sourcedInput
	for _, path := range paths {
		loaded, err := LoadSubmissionInputs(path)
		if err != nil {
			return nil, err
		}
		for _, in := range loaded {
			inputs = append(inputs, sourcedInput{source: path, input: in})
		}
	}
	if expertOverride != "" {
		if len(inputs) != 1 {
			return nil, fmt.Errorf("--expert applies to a single submission, got %d", len(inputs))
		}
		inputs[0].input.Expert = expertOverride
	}
	return inputs, nil
}

// evaluateAll evaluates inputs concurrently and returns them in input order.
func evaluateAll(ctx context.Context, h schema.Hierarchy, inputs []sourcedInput, workers int) ([]Evaluation, error) {
	evals := make([]Evaluation, len(inputs))
	now := nowFrom(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ev, err := Evaluate(h, in.input, now)
			if err != nil {
				return fmt.Errorf("%s: %w", in.source, err)
			}
			ev.Source = in.source
			evals[i] = ev
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return evals, nil
}

// EvaluateFiles loads and evaluates every submission in paths against cfg's questionnaire.
func EvaluateFiles(ctx context.Context, cfg *contract.Config) ([]Evaluation, error) {
	inputs, err := loadInputs(cfg.InputFiles, cfg.Expert)
	if err != nil {
		return nil, err
	}
	evals, err := evaluateAll(ctx, cfg.Hierarchy, inputs, cfg.Workers)
	if err != nil {
		return nil, err
	}
	if !isQuiet(ctx) {
		for _, ev := range evals {
			for _, w := range ev.Warnings {
				contract.LogWarn(fmt.Sprintf("expert %s", ev.Submission.Expert), errors.New(w))
			}
		}
	}
	return evals, nil
}

// SaveSubmission stores sub and announces it. The event is best effort.
func SaveSubmission(ctx context.Context, store contract.SubmissionStore, pub contract.Publisher, sub schema.Submission) error {
	if err := store.Save(ctx, sub); err != nil {
		return fmt.Errorf("failed to save submission of %s: %w", sub.Expert, err)
	}
	if pub == nil {
		return nil
	}
	event := schema.SubmissionCreatedEvent{
		SubmissionID:  sub.ID,
		Expert:        sub.Expert,
		Questionnaire: sub.Questionnaire,
		CreatedAt:     sub.CreatedAt,
		MainCons:      sub.Result.Main.Cons,
	}
	if err := pub.Publish(ctx, schema.SubjectSubmissionCreated, event); err != nil && !isQuiet(ctx) {
		contract.LogWarn("Cannot publish submission event", err)
	}
	return nil
}

// ExecuteCompute evaluates submission files, optionally stores them, and prints the results.
func ExecuteCompute(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, pub contract.Publisher) error {
	start := time.Now()

	evals, err := EvaluateFiles(ctx, cfg)
	if err != nil {
		return err
	}

	subs := make([]schema.Submission, len(evals))
	for i, ev := range evals {
		subs[i] = ev.Submission
	}

	if cfg.Save {
		store, err := submissionStore(mgr)
		if err != nil {
			return err
		}
		for _, sub := range subs {
			if err := SaveSubmission(ctx, store, pub, sub); err != nil {
				return err
			}
		}
	}

	return outwriter.NewOutWriter().WriteSubmissions(subs, cfg, time.Since(start))
}
