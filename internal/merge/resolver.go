package merge

import (
	"context"
	"log/slog"

	"github.com/Mshivam2409/rustduino/internal/logfields"
	"github.com/Mshivam2409/rustduino/internal/navtree"
	"github.com/Mshivam2409/rustduino/internal/validation"
)

// Result is a merged tree with its conflict log and re-validation report.
type Result struct {
	Tree      *navtree.Tree
	Conflicts ConflictLog
	Report    *validation.Report
}

// Clean reports whether the merge produced no conflicts and no issues.
func (r *Result) Clean() bool {
	return len(r.Conflicts) == 0 && r.Report.OK()
}

// Resolver merges revisions and re-validates the outcome. Whether a result
// with conflicts is accepted is left to the caller.
type Resolver struct {
	validator *validation.Validator
	logger    *slog.Logger
}

// NewResolver returns a resolver re-validating with v. A nil v checks
// structure, uniqueness and labels only.
func NewResolver(v *validation.Validator, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if v == nil {
		v = validation.New(nil, validation.WithLogger(logger))
	}
	return &Resolver{validator: v, logger: logger}
}

// Merge merges incoming into base. The only error is an unavailable oracle
// during re-validation; conflicts are data in the result.
func (r *Resolver) Merge(ctx context.Context, base, incoming *navtree.Tree) (*Result, error) {
	tree, conflicts := Trees(base, incoming)
	for _, c := range conflicts {
		r.logger.Warn("Placement conflict resolved in favour of incoming revision",
			logfields.DocID(c.ID),
			slog.String("base_path", c.BasePath.String()),
			slog.String("incoming_path", c.IncomingPath.String()))
	}

	report, err := r.validator.Validate(ctx, tree)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Merged navigation revisions",
		logfields.Conflicts(len(conflicts)),
		logfields.Issues(len(report.Issues)))
	return &Result{Tree: tree, Conflicts: conflicts, Report: report}, nil
}
