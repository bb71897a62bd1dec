package report

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/Mshivam2409/rustduino/internal/build"
	"github.com/Mshivam2409/rustduino/internal/navtree"
	"github.com/Mshivam2409/rustduino/internal/revision"
	"github.com/Mshivam2409/rustduino/internal/validation"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONPass is one pass in JSON output.
type JSONPass struct {
	ID         string         `json:"id"`
	Sidebar    string         `json:"sidebar"`
	Source     string         `json:"source"`
	Status     string         `json:"status"`
	DurationMS int64          `json:"duration_ms"`
	Documents  int            `json:"documents"`
	Categories int            `json:"categories"`
	MaxDepth   int            `json:"max_depth"`
	IssueKinds map[string]int `json:"issue_kinds,omitempty"`
	Issues     []JSONIssue    `json:"issues"`
	Warnings   []string       `json:"warnings,omitempty"`
	Conflicts  []JSONConflict `json:"conflicts,omitempty"`
}

// JSONIssue is one validation issue.
type JSONIssue struct {
	Kind    string   `json:"kind"`
	DocID   string   `json:"doc_id,omitempty"`
	Paths   []string `json:"paths,omitempty"`
	Message string   `json:"message"`
}

// JSONConflict is one resolved merge conflict.
type JSONConflict struct {
	DocID        string `json:"doc_id"`
	BasePath     string `json:"base_path"`
	IncomingPath string `json:"incoming_path"`
	Resolution   string `json:"resolution"`
}

// JSONChange is one change-log entry.
type JSONChange struct {
	Kind  string `json:"kind"`
	DocID string `json:"doc_id"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

// JSONRevision is one stored revision.
type JSONRevision struct {
	ID          string       `json:"id"`
	Sidebar     string       `json:"sidebar"`
	Number      int          `json:"number"`
	Fingerprint string       `json:"fingerprint"`
	Note        string       `json:"note,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	Unchanged   bool         `json:"unchanged,omitempty"`
	Changes     []JSONChange `json:"changes,omitempty"`
}

// Passes writes {"passes": [...]}.
func (f *JSONFormatter) Passes(w io.Writer, passes []*build.Pass) error {
	out := struct {
		OK     bool       `json:"ok"`
		Passes []JSONPass `json:"passes"`
	}{OK: true, Passes: make([]JSONPass, 0, len(passes))}

	for _, p := range passes {
		jp := JSONPass{
			ID:         p.ID,
			Sidebar:    p.Sidebar,
			Source:     p.Source,
			Status:     string(p.Status),
			DurationMS: p.Duration.Milliseconds(),
			Issues:     []JSONIssue{},
		}
		if !p.OK() {
			out.OK = false
		}
		if p.Report != nil {
			jp.Documents = p.Report.Stats.Docs
			jp.Categories = p.Report.Stats.Categories
			jp.MaxDepth = p.Report.Stats.MaxDepth
			if len(p.Report.Issues) > 0 {
				jp.IssueKinds = p.Report.Counts()
			}
			for _, issue := range p.Report.Issues {
				jp.Issues = append(jp.Issues, toJSONIssue(issue))
			}
		}
		for _, w := range p.Warnings {
			jp.Warnings = append(jp.Warnings, w.String())
		}
		for _, c := range p.Conflicts {
			jp.Conflicts = append(jp.Conflicts, JSONConflict{
				DocID:        c.ID,
				BasePath:     c.BasePath.String(),
				IncomingPath: c.IncomingPath.String(),
				Resolution:   c.Resolution,
			})
		}
		out.Passes = append(out.Passes, jp)
	}
	return encode(w, out)
}

// Commit writes the stored revision with its change log.
func (f *JSONFormatter) Commit(w io.Writer, res *revision.CommitResult) error {
	jr := toJSONRevision(*res.Revision)
	jr.Unchanged = res.Unchanged
	for _, c := range res.Changes {
		jr.Changes = append(jr.Changes, JSONChange{Kind: string(c.Kind), DocID: c.DocID, From: c.From, To: c.To})
	}
	return encode(w, jr)
}

// History writes the revisions, newest first.
func (f *JSONFormatter) History(w io.Writer, revs []revision.Revision) error {
	out := make([]JSONRevision, 0, len(revs))
	for _, r := range revs {
		out = append(out, toJSONRevision(r))
	}
	return encode(w, out)
}

func toJSONRevision(r revision.Revision) JSONRevision {
	return JSONRevision{
		ID:          r.ID,
		Sidebar:     r.Sidebar,
		Number:      r.Number,
		Fingerprint: r.Fingerprint,
		Note:        r.Note,
		CreatedAt:   r.CreatedAt,
	}
}

func toJSONIssue(issue error) JSONIssue {
	ji := JSONIssue{Kind: validation.IssueKind(issue), Message: issue.Error()}
	var (
		dangling *validation.DanglingReferenceError
		dup      *validation.DuplicateReferenceError
		unknown  *validation.UnknownNodeTypeError
	)
	switch {
	case errors.As(issue, &dangling):
		ji.DocID, ji.Paths = dangling.ID, []string{dangling.Path.String()}
	case errors.As(issue, &dup):
		ji.DocID, ji.Paths = dup.ID, pathStrings(dup.Paths)
	case errors.As(issue, &unknown):
		ji.Paths = []string{unknown.Path.String()}
	}
	return ji
}

func pathStrings(paths []navtree.Path) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return out
}

func encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
