package schema

import "errors"

// Sentinel errors shared across packages. Callers match them with errors.Is.
var (
	// ErrNoData means aggregation had no expert with main-criteria judgments.
	ErrNoData = errors.New("no data: at least one expert with main criteria judgments is required")

	// ErrHierarchyMismatch means a stored result was computed against different labels.
	ErrHierarchyMismatch = errors.New("hierarchy mismatch")

	// ErrUnknownCriterion means a sub-criteria group references a criterion outside the hierarchy.
	ErrUnknownCriterion = errors.New("unknown criterion")

	// ErrNotFound means a requested record does not exist.
	ErrNotFound = errors.New("not found")
)
