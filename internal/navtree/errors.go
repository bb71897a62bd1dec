package navtree

import "fmt"

// InvalidNodeError reports a node that violates a construction invariant:
// an empty category label or an empty document id.
type InvalidNodeError struct {
	Kind  Kind
	Field string
	Path  Path // empty when raised at construction
}

func (e *InvalidNodeError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("invalid %s at %s: %s must not be empty", e.Kind, e.Path, e.Field)
	}
	return fmt.Sprintf("invalid %s: %s must not be empty", e.Kind, e.Field)
}
