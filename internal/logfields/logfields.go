package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySidebar    = "sidebar"
	KeyRevision   = "revision"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyDocID      = "doc_id"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyIssues     = "issues"
	KeyWarnings   = "warnings"
	KeyConflicts  = "conflicts"
	KeyOracle     = "oracle"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Sidebar(name string) slog.Attr   { return slog.String(KeySidebar, name) }
func Revision(n int) slog.Attr        { return slog.Int(KeyRevision, n) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func DocID(id string) slog.Attr       { return slog.String(KeyDocID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Issues(n int) slog.Attr          { return slog.Int(KeyIssues, n) }
func Warnings(n int) slog.Attr        { return slog.Int(KeyWarnings, n) }
func Conflicts(n int) slog.Attr       { return slog.Int(KeyConflicts, n) }
func Oracle(kind string) slog.Attr    { return slog.String(KeyOracle, kind) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
