// Package report formats pass results, commits and revision history for the CLI.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Mshivam2409/rustduino/internal/build"
	"github.com/Mshivam2409/rustduino/internal/foundation/normalization"
	"github.com/Mshivam2409/rustduino/internal/revision"
)

// Format selects an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var formatNormalizer = normalization.NewEnumNormalizer("report format", map[string]Format{
	"text":  FormatText,
	"human": FormatText,
	"json":  FormatJSON,
}, FormatText)

// Formatter writes CLI results.
type Formatter interface {
	Passes(w io.Writer, passes []*build.Pass) error
	Commit(w io.Writer, res *revision.CommitResult) error
	History(w io.Writer, revs []revision.Revision) error
}

// NewFormatter returns the formatter for raw, which must be text or json.
func NewFormatter(raw string) (Formatter, error) {
	f, err := formatNormalizer.NormalizeWithValidation(raw)
	if err != nil {
		return nil, err
	}
	if f == FormatJSON {
		return NewJSONFormatter(), nil
	}
	return NewTextFormatter(), nil
}

const rule = 60

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Passes writes one block per pass followed by a summary.
func (f *TextFormatter) Passes(w io.Writer, passes []*build.Pass) error {
	p := &printer{w: w}
	var issues, conflicts, failed int
	for _, pass := range passes {
		f.pass(p, pass)
		if pass.Report != nil {
			issues += len(pass.Report.Issues)
		}
		conflicts += len(pass.Conflicts)
		if pass.Status == build.StatusFailed {
			failed++
		}
	}

	p.line(strings.Repeat("━", rule))
	p.line("Results:")
	p.printf("  %d sidebar%s checked\n", len(passes), pluralize(len(passes)))
	if issues > 0 {
		p.printf("  %d issue%s (blocks commit)\n", issues, pluralize(issues))
	}
	if conflicts > 0 {
		p.printf("  %d conflict%s resolved in favour of the incoming revision\n", conflicts, pluralize(conflicts))
	}
	p.line()
	switch {
	case failed > 0:
		p.line("❌ Some sidebars could not be checked.")
	case issues > 0:
		p.line("❌ Navigation has issues that must be fixed before commit.")
	case conflicts > 0:
		p.line("⚠️  Merge resolved conflicts. Review the moves before commit.")
	default:
		p.line("✨ Navigation is valid!")
	}
	return p.err
}

func (f *TextFormatter) pass(p *printer, pass *build.Pass) {
	p.printf("Sidebar %s (%s)\n", orDash(pass.Sidebar), pass.Source)
	p.line(strings.Repeat("━", rule))
	if pass.Report != nil {
		st := pass.Report.Stats
		p.printf("  %d document%s, %d categor%s, depth %d\n",
			st.Docs, pluralize(st.Docs), st.Categories, pluralizeY(st.Categories), st.MaxDepth)
	}
	for _, w := range pass.Warnings {
		p.printf("⚠ %s\n", w)
	}
	if pass.Report != nil {
		for _, issue := range pass.Report.Issues {
			p.printf("✗ %s\n", issue)
		}
	}
	for _, c := range pass.Conflicts {
		p.printf("⇄ %s\n", c)
	}
	if pass.Status == build.StatusFailed {
		p.line("✗ pass failed")
	}
	p.line()
}

// Commit writes the revision number and change log.
func (f *TextFormatter) Commit(w io.Writer, res *revision.CommitResult) error {
	p := &printer{w: w}
	rev := res.Revision
	if res.Unchanged {
		p.printf("Sidebar %s unchanged at revision %d\n", rev.Sidebar, rev.Number)
		return p.err
	}
	p.printf("Committed %s revision %d (%s)\n", rev.Sidebar, rev.Number, rev.ID)
	for _, c := range res.Changes {
		p.line("  " + changeLine(c))
	}
	return p.err
}

// History writes one line per revision, newest first.
func (f *TextFormatter) History(w io.Writer, revs []revision.Revision) error {
	p := &printer{w: w}
	if len(revs) == 0 {
		p.line("No revisions.")
		return p.err
	}
	for _, r := range revs {
		p.printf("%4d  %s  %s  %s", r.Number, r.CreatedAt.Format("2006-01-02 15:04:05"), r.ID, r.Fingerprint)
		if r.Note != "" {
			p.printf("  %s", r.Note)
		}
		p.line()
	}
	return p.err
}

func changeLine(c revision.Change) string {
	switch c.Kind {
	case revision.ChangeAdded:
		return fmt.Sprintf("+ %s at %s", c.DocID, c.To)
	case revision.ChangeRemoved:
		return fmt.Sprintf("- %s from %s", c.DocID, c.From)
	case revision.ChangeConflict:
		return fmt.Sprintf("! %s conflict: %s vs %s", c.DocID, c.From, c.To)
	default:
		return fmt.Sprintf("~ %s moved %s -> %s", c.DocID, c.From, c.To)
	}
}

// printer remembers the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) line(args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintln(p.w, args...)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

func pluralizeY(count int) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}
