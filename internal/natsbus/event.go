package natsbus

import (
	"time"

	"github.com/Mshivam2409/rustduino/internal/merge"
	"github.com/Mshivam2409/rustduino/internal/validation"
)

// EventType is appended to the configured subject.
type EventType string

const (
	EventValidated EventType = "validated"
	EventCommitted EventType = "committed"
)

// Event is the JSON payload published for validation passes and commits.
type Event struct {
	Type       EventType      `json:"type"`
	Sidebar    string         `json:"sidebar"`
	Revision   int            `json:"revision,omitempty"`
	RevisionID string         `json:"revision_id,omitempty"`
	OK         bool           `json:"ok"`
	Issues     []string       `json:"issues,omitempty"`
	IssueKinds map[string]int `json:"issue_kinds,omitempty"`
	Conflicts  []string       `json:"conflicts,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// ValidationEvent summarizes a validation report.
func ValidationEvent(sidebar string, report *validation.Report) Event {
	ev := Event{Type: EventValidated, Sidebar: sidebar, OK: report.OK()}
	if report != nil {
		for _, issue := range report.Issues {
			ev.Issues = append(ev.Issues, issue.Error())
		}
		ev.IssueKinds = report.Counts()
	}
	return ev
}

// CommitEvent announces a stored revision and the conflicts resolved on the way.
func CommitEvent(sidebar string, number int, id string, conflicts merge.ConflictLog) Event {
	ev := Event{Type: EventCommitted, Sidebar: sidebar, Revision: number, RevisionID: id, OK: true}
	for _, c := range conflicts {
		ev.Conflicts = append(ev.Conflicts, c.String())
	}
	return ev
}
