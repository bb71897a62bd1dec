package render

import "github.com/Mshivam2409/rustduino/internal/foundation/errors"

var (
	// ErrNotFrozen indicates projection of a tree that was never frozen into a revision.
	ErrNotFrozen = errors.ValidationError("tree is not frozen").Build()

	// ErrUnresolvedNode indicates an unresolved node reached render time.
	ErrUnresolvedNode = errors.ValidationError("unresolved node reached render").Build()
)
