package navtree

import "errors"

// SkipChildren may be returned by a WalkFunc to skip the nested nodes of the
// node just visited.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node. depth is 0 for top-level nodes.
type WalkFunc func(path Path, depth int, n Node) error

// Tree is an ordered sequence of top-level nodes. The zero value is an empty,
// unfrozen tree.
type Tree struct {
	nodes    []Node
	revision int
	frozen   bool
}

// NewTree builds an unfrozen tree holding deep copies of nodes.
func NewTree(nodes ...Node) *Tree {
	return &Tree{nodes: cloneNodes(nodes)}
}

// Nodes returns a deep copy of the top-level nodes.
func (t *Tree) Nodes() []Node {
	if t == nil {
		return nil
	}
	return cloneNodes(t.nodes)
}

// Len returns the number of top-level nodes.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Revision returns the revision number assigned by Freeze, or 0.
func (t *Tree) Revision() int {
	if t == nil {
		return 0
	}
	return t.revision
}

// Frozen reports whether the tree was produced by Freeze.
func (t *Tree) Frozen() bool {
	return t != nil && t.frozen
}

// Freeze returns a frozen copy of t carrying revision.
func (t *Tree) Freeze(revision int) *Tree {
	return &Tree{nodes: t.Nodes(), revision: revision, frozen: true}
}

// Equal reports structural equality, ignoring revision and frozen state.
func (t *Tree) Equal(o *Tree) bool {
	var a, b []Node
	if t != nil {
		a = t.nodes
	}
	if o != nil {
		b = o.nodes
	}
	return equalNodes(a, b)
}

// Walk visits every node depth-first in declaration order, including the
// items preserved inside Unresolved nodes.
func (t *Tree) Walk(fn WalkFunc) error {
	if t == nil {
		return nil
	}
	return walk(t.nodes, nil, 0, fn)
}

func walk(nodes []Node, parent Path, depth int, fn WalkFunc) error {
	for _, n := range nodes {
		p := parent.Child(segment(n))
		err := fn(p, depth, n)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
		if err := walk(children(n), p, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// DocIDs returns the distinct document ids in first-seen walk order.
func (t *Tree) DocIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	_ = t.Walk(func(_ Path, _ int, n Node) error {
		if d, ok := n.(DocRef); ok {
			if _, dup := seen[d.ID]; !dup {
				seen[d.ID] = struct{}{}
				ids = append(ids, d.ID)
			}
		}
		return nil
	})
	return ids
}

// Placements maps every document id to the paths of its references, in walk
// order. An id with more than one path is a duplicate.
func (t *Tree) Placements() map[string][]Path {
	out := make(map[string][]Path)
	_ = t.Walk(func(p Path, _ int, n Node) error {
		if d, ok := n.(DocRef); ok {
			out[d.ID] = append(out[d.ID], p)
		}
		return nil
	})
	return out
}

// Stats summarizes a tree's shape.
type Stats struct {
	Categories int
	Docs       int
	Unresolved int
	MaxDepth   int
}

// Stats counts nodes by kind and records the deepest level (1-based).
func (t *Tree) Stats() Stats {
	var s Stats
	_ = t.Walk(func(_ Path, depth int, n Node) error {
		switch n.Kind() {
		case KindCategory:
			s.Categories++
		case KindDoc:
			s.Docs++
		case KindUnresolved:
			s.Unresolved++
		}
		if depth+1 > s.MaxDepth {
			s.MaxDepth = depth + 1
		}
		return nil
	})
	return s
}
