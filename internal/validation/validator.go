// Package validation checks normalized navigation trees.
package validation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Mshivam2409/rustduino/internal/logfields"
	"github.com/Mshivam2409/rustduino/internal/navtree"
	"github.com/Mshivam2409/rustduino/internal/oracle"
	"github.com/Mshivam2409/rustduino/internal/util/sets"
	"golang.org/x/sync/errgroup"
)

// Validator runs the structural, referential, uniqueness and label checks.
// It holds no per-tree state and is safe for concurrent use.
type Validator struct {
	oracle      oracle.Oracle
	logger      *slog.Logger
	concurrency int
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// WithConcurrency bounds the number of trees ValidateAll checks at once.
func WithConcurrency(n int) Option {
	return func(v *Validator) { v.concurrency = n }
}

// New returns a validator backed by o. A nil oracle skips the referential
// check; the merge resolver uses that to re-check structure and uniqueness.
func New(o oracle.Oracle, opts ...Option) *Validator {
	v := &Validator{oracle: o, logger: slog.Default(), concurrency: 4}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks tree exhaustively. It returns an *OracleUnavailableError,
// and no report, when the oracle lookup fails.
func (v *Validator) Validate(ctx context.Context, tree *navtree.Tree) (*Report, error) {
	report := &Report{Stats: tree.Stats()}

	var known sets.Set[string]
	if v.oracle != nil {
		found, err := oracle.Lookup(ctx, v.oracle, tree.DocIDs())
		if err != nil {
			v.logger.Warn("Document oracle lookup failed", logfields.Error(err))
			return nil, &OracleUnavailableError{Err: err}
		}
		known = found
	}

	report.Issues = append(report.Issues, checkStructure(tree)...)
	if v.oracle != nil {
		report.Issues = append(report.Issues, checkReferences(tree, known)...)
	}
	report.Issues = append(report.Issues, checkDuplicates(tree)...)
	report.Issues = append(report.Issues, checkLabels(tree)...)

	v.logger.Debug("Validated navigation tree",
		logfields.Issues(len(report.Issues)),
		slog.Int("docs", report.Stats.Docs),
		slog.Int("categories", report.Stats.Categories))
	return report, nil
}

// Outcome is the result of validating one tree in ValidateAll.
type Outcome struct {
	Report *Report
	Err    error
}

// ValidateAll validates independent trees concurrently. A failure for one
// tree does not affect the others; outcomes are index-aligned with trees.
func (v *Validator) ValidateAll(ctx context.Context, trees []*navtree.Tree) []Outcome {
	outcomes := make([]Outcome, len(trees))
	g, gctx := errgroup.WithContext(ctx)
	if v.concurrency > 0 {
		g.SetLimit(v.concurrency)
	}
	for i, tree := range trees {
		g.Go(func() error {
			report, err := v.Validate(gctx, tree)
			outcomes[i] = Outcome{Report: report, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func checkStructure(tree *navtree.Tree) []error {
	var issues []error
	_ = tree.Walk(func(p navtree.Path, _ int, n navtree.Node) error {
		if u, ok := n.(navtree.Unresolved); ok {
			issues = append(issues, &UnknownNodeTypeError{Path: p, Type: u.RawType, Reason: u.Reason})
		}
		return nil
	})
	return issues
}

func checkReferences(tree *navtree.Tree, known sets.Set[string]) []error {
	var issues []error
	_ = tree.Walk(func(p navtree.Path, _ int, n navtree.Node) error {
		if d, ok := n.(navtree.DocRef); ok {
			if !known.Has(d.ID) {
				issues = append(issues, &DanglingReferenceError{ID: d.ID, Path: p})
			}
		}
		return nil
	})
	return issues
}

func checkDuplicates(tree *navtree.Tree) []error {
	placements := tree.Placements()
	var issues []error
	for _, id := range tree.DocIDs() {
		if paths := placements[id]; len(paths) > 1 {
			issues = append(issues, &DuplicateReferenceError{ID: id, Paths: paths})
		}
	}
	return issues
}

func checkLabels(tree *navtree.Tree) []error {
	var issues []error
	_ = tree.Walk(func(p navtree.Path, _ int, n navtree.Node) error {
		if c, ok := n.(navtree.Category); ok && strings.TrimSpace(c.Label) == "" {
			issues = append(issues, &navtree.InvalidNodeError{Kind: navtree.KindCategory, Field: "label", Path: p})
		}
		return nil
	})
	return issues
}
