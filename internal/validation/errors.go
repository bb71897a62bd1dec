package validation

import (
	"fmt"
	"strings"

	"github.com/Mshivam2409/rustduino/internal/navtree"
)

// UnknownNodeTypeError reports an entry the normalizer could not classify.
type UnknownNodeTypeError struct {
	Path   navtree.Path
	Type   string
	Reason string
}

func (e *UnknownNodeTypeError) Error() string {
	return fmt.Sprintf("unresolved entry at %s: %s", e.Path, e.Reason)
}

// DanglingReferenceError reports a document reference whose id does not exist.
type DanglingReferenceError struct {
	ID   string
	Path navtree.Path
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("document %q referenced at %s does not exist", e.ID, e.Path)
}

// DuplicateReferenceError reports a document referenced more than once.
// Paths lists every occurrence in walk order.
type DuplicateReferenceError struct {
	ID    string
	Paths []navtree.Path
}

func (e *DuplicateReferenceError) Error() string {
	paths := make([]string, len(e.Paths))
	for i, p := range e.Paths {
		paths[i] = p.String()
	}
	return fmt.Sprintf("document %q appears %d times: %s", e.ID, len(e.Paths), strings.Join(paths, "; "))
}

// OracleUnavailableError reports that the document oracle could not answer.
// It aborts the pass for the tree being validated.
type OracleUnavailableError struct {
	Err error
}

func (e *OracleUnavailableError) Error() string {
	return fmt.Sprintf("document oracle unavailable: %v", e.Err)
}

func (e *OracleUnavailableError) Unwrap() error { return e.Err }
