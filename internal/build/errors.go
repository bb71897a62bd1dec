package build

import "github.com/Mshivam2409/rustduino/internal/foundation/errors"

var (
	// ErrNoStore indicates an operation needing the revision store on a service without one.
	ErrNoStore = errors.ConfigError("revision store is not configured").Build()

	// ErrInvalidRevision indicates a malformed stored-revision source such as "@x".
	ErrInvalidRevision = errors.ValidationError("invalid revision reference").UserAction().Build()

	// ErrNoConflictMarkers indicates Resolve was given a file without conflict hunks.
	ErrNoConflictMarkers = errors.ValidationError("file has no conflict markers").UserAction().Build()

	// ErrUnresolvedConflicts indicates a strict commit of a merge that logged conflicts.
	ErrUnresolvedConflicts = errors.ConflictError("merge resolved placement conflicts").UserAction().Build()
)
