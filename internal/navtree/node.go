package navtree

import (
	"reflect"
	"strings"
)

// Kind discriminates the node variants.
type Kind int

const (
	KindCategory Kind = iota + 1
	KindDoc
	KindUnresolved
)

// String returns the lowercase kind name used in raw declarations.
func (k Kind) String() string {
	switch k {
	case KindCategory:
		return "category"
	case KindDoc:
		return "doc"
	case KindUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Node is one entry of a navigation tree. The set of implementations is closed.
type Node interface {
	Kind() Kind
	isNode()
}

// Category groups child nodes under a label. Child order is significant.
type Category struct {
	Label    string
	Children []Node
}

// DocRef is a leaf referencing one document by identifier.
type DocRef struct {
	ID string
}

// Unresolved holds a raw entry whose type could not be determined. It keeps
// whatever the normalizer could salvage so the validator can report it
// precisely.
type Unresolved struct {
	RawType  string
	RawLabel string
	RawItems []Node
	Reason   string
}

func (Category) Kind() Kind   { return KindCategory }
func (DocRef) Kind() Kind     { return KindDoc }
func (Unresolved) Kind() Kind { return KindUnresolved }

func (Category) isNode()   {}
func (DocRef) isNode()     {}
func (Unresolved) isNode() {}

// NewCategory builds a category, rejecting an empty label.
func NewCategory(label string, children ...Node) (Category, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Category{}, &InvalidNodeError{Kind: KindCategory, Field: "label"}
	}
	return Category{Label: label, Children: cloneNodes(children)}, nil
}

// NewDocRef builds a document reference, rejecting an empty id.
func NewDocRef(id string) (DocRef, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return DocRef{}, &InvalidNodeError{Kind: KindDoc, Field: "id"}
	}
	return DocRef{ID: id}, nil
}

// Equal reports structural equality of two nodes.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Category:
		y, ok := b.(Category)
		return ok && x.Label == y.Label && equalNodes(x.Children, y.Children)
	case DocRef:
		y, ok := b.(DocRef)
		return ok && x.ID == y.ID
	case Unresolved:
		y, ok := b.(Unresolved)
		return ok && x.RawType == y.RawType && x.RawLabel == y.RawLabel &&
			x.Reason == y.Reason && equalNodes(x.RawItems, y.RawItems)
	default:
		return reflect.DeepEqual(a, b)
	}
}

func equalNodes(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch x := n.(type) {
	case Category:
		return Category{Label: x.Label, Children: cloneNodes(x.Children)}
	case Unresolved:
		x.RawItems = cloneNodes(x.RawItems)
		return x
	default:
		return n
	}
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}

// children returns the nested nodes of n, if any.
func children(n Node) []Node {
	switch x := n.(type) {
	case Category:
		return x.Children
	case Unresolved:
		return x.RawItems
	default:
		return nil
	}
}

// segment is the path element naming n.
func segment(n Node) string {
	switch x := n.(type) {
	case Category:
		if x.Label == "" {
			return "(unlabeled)"
		}
		return x.Label
	case DocRef:
		return x.ID
	case Unresolved:
		switch {
		case x.RawLabel != "":
			return x.RawLabel
		case x.RawType != "":
			return "<" + x.RawType + ">"
		default:
			return "<unresolved>"
		}
	default:
		return "?"
	}
}
