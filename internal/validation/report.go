package validation

import (
	"errors"

	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"github.com/Mshivam2409/rustduino/internal/navtree"
)

// Report collects every issue found in one tree. Issues are ordered by check
// (structure, references, duplicates, labels), then by walk order.
type Report struct {
	Issues []error
	Stats  navtree.Stats
}

// OK reports whether the tree passed every check.
func (r *Report) OK() bool { return r == nil || len(r.Issues) == 0 }

// Err aggregates all issues into one classified validation error, or nil.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return ferrors.WrapError(errors.Join(r.Issues...), ferrors.CategoryValidation, "navigation tree failed validation").
		UserAction().
		WithContext("issues", len(r.Issues)).
		Build()
}

// Counts tallies issues by kind name: unknown_type, dangling, duplicate,
// invalid_node.
func (r *Report) Counts() map[string]int {
	out := make(map[string]int)
	if r == nil {
		return out
	}
	for _, issue := range r.Issues {
		out[IssueKind(issue)]++
	}
	return out
}

// IssueKind names the kind of a report issue for metrics and formatting.
func IssueKind(issue error) string {
	var (
		unknown  *UnknownNodeTypeError
		dangling *DanglingReferenceError
		dup      *DuplicateReferenceError
		invalid  *navtree.InvalidNodeError
	)
	switch {
	case errors.As(issue, &unknown):
		return "unknown_type"
	case errors.As(issue, &dangling):
		return "dangling"
	case errors.As(issue, &dup):
		return "duplicate"
	case errors.As(issue, &invalid):
		return "invalid_node"
	default:
		return "other"
	}
}
