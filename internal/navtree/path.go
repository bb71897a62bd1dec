package navtree

import "strings"

// PathSeparator joins path segments. Document ids may contain '/', so the
// separator must not.
const PathSeparator = " > "

// Path locates a node by the labels of its enclosing categories followed by
// the node's own label or id.
type Path []string

// String renders the path for humans.
func (p Path) String() string {
	if len(p) == 0 {
		return "(root)"
	}
	return strings.Join(p, PathSeparator)
}

// Child returns a new path extended by seg. p is never modified.
func (p Path) Child(seg string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Parent returns the path of the enclosing category.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

// Equal reports whether two paths name the same location.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}
