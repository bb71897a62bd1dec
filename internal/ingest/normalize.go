package ingest

import (
	"fmt"
	"strings"

	"github.com/Mshivam2409/rustduino/internal/navtree"
	"gopkg.in/yaml.v3"
)

// Reserved keys of an object entry. A mapping using none of them is the
// {Label: [items...]} shorthand.
const (
	keyType  = "type"
	keyLabel = "label"
	keyItems = "items"
	keyID    = "id"
)

// Warning is a non-fatal normalization finding.
type Warning struct {
	Path    navtree.Path
	Line    int
	Message string
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", w.Line, w.Path, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}

// Result is the canonical tree produced from one sidebar plus any warnings.
type Result struct {
	Name     string
	Tree     *navtree.Tree
	Warnings []Warning
}

// Normalize converts the sidebar's raw items into a canonical tree.
func (s Sidebar) Normalize() *Result {
	res := Normalize(s.Items)
	res.Name = s.Name
	return res
}

// Normalize converts a raw item list into a canonical tree. It never fails:
// entries it cannot classify become navtree.Unresolved.
func Normalize(items *yaml.Node) *Result {
	n := &normalizer{}
	nodes := n.items(items, nil)
	return &Result{Tree: navtree.NewTree(nodes...), Warnings: n.warnings}
}

type normalizer struct {
	warnings []Warning
}

func (n *normalizer) warn(p navtree.Path, node *yaml.Node, msg string) {
	w := Warning{Path: p, Message: msg}
	if node != nil {
		w.Line = node.Line
	}
	n.warnings = append(n.warnings, w)
}

// items normalizes a value in items position: a list, or a single entry
// standing in for a one-element list.
func (n *normalizer) items(node *yaml.Node, parent navtree.Path) []navtree.Node {
	node = resolve(node)
	if node == nil || isNull(node) {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		return n.entry(node, parent)
	}
	var out []navtree.Node
	for _, child := range node.Content {
		out = append(out, n.entry(child, parent)...)
	}
	return out
}

// entry normalizes one list element. The shorthand mapping may yield several
// categories.
func (n *normalizer) entry(node *yaml.Node, parent navtree.Path) []navtree.Node {
	node = resolve(node)
	if node == nil {
		return nil
	}
	switch node.Kind {
	case yaml.ScalarNode:
		return []navtree.Node{n.scalar(node)}
	case yaml.SequenceNode:
		p := parent.Child("<list>")
		return []navtree.Node{navtree.Unresolved{
			RawItems: n.items(node, p),
			Reason:   "nested list outside a category",
		}}
	case yaml.MappingNode:
		return n.mapping(node, parent)
	default:
		return []navtree.Node{navtree.Unresolved{Reason: "unrecognized entry"}}
	}
}

func (n *normalizer) scalar(node *yaml.Node) navtree.Node {
	if isNull(node) {
		return navtree.Unresolved{RawType: navtree.KindDoc.String(), Reason: "null entry"}
	}
	id := strings.TrimSpace(node.Value)
	if id == "" {
		return navtree.Unresolved{RawType: navtree.KindDoc.String(), Reason: "empty document id"}
	}
	return navtree.DocRef{ID: id}
}

func (n *normalizer) mapping(node *yaml.Node, parent navtree.Path) []navtree.Node {
	fields := make(map[string]*yaml.Node, len(node.Content)/2)
	var keys []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i].Value
		if _, dup := fields[k]; dup {
			continue
		}
		fields[k] = node.Content[i+1]
		keys = append(keys, k)
	}

	typ := strings.ToLower(scalarValue(fields[keyType]))
	label := scalarValue(fields[keyLabel])
	itemsNode, hasItems := fields[keyItems]
	idNode, hasID := fields[keyID]

	switch {
	case typ == navtree.KindCategory.String() || (typ == "" && hasItems):
		if id := scalarValue(idNode); id != "" {
			n.warn(parent.Child(label), node, fmt.Sprintf("category ignores id %q", id))
		}
		return []navtree.Node{n.category(label, itemsNode, node, parent)}

	case typ == navtree.KindDoc.String() || (typ == "" && hasID):
		id := scalarValue(idNode)
		var nested []navtree.Node
		if hasItems {
			seg := id
			if seg == "" {
				seg = label
			}
			nested = n.items(itemsNode, parent.Child(seg))
		}
		switch {
		case id == "":
			return []navtree.Node{navtree.Unresolved{
				RawType:  navtree.KindDoc.String(),
				RawLabel: label,
				RawItems: nested,
				Reason:   "document entry without id",
			}}
		case len(nested) > 0:
			return []navtree.Node{navtree.Unresolved{
				RawType:  navtree.KindDoc.String(),
				RawLabel: id,
				RawItems: nested,
				Reason:   "document entry with items",
			}}
		}
		return []navtree.Node{navtree.DocRef{ID: id}}

	case typ == "" && !hasReservedKey(fields):
		out := make([]navtree.Node, 0, len(keys))
		for _, k := range keys {
			out = append(out, n.category(strings.TrimSpace(k), fields[k], node, parent))
		}
		return out

	case typ == "":
		return []navtree.Node{navtree.Unresolved{RawLabel: label, Reason: "entry has neither items nor id"}}

	default:
		p := parent.Child(label)
		return []navtree.Node{navtree.Unresolved{
			RawType:  typ,
			RawLabel: label,
			RawItems: n.items(itemsNode, p),
			Reason:   fmt.Sprintf("unknown node type %q", typ),
		}}
	}
}

func (n *normalizer) category(label string, itemsNode, at *yaml.Node, parent navtree.Path) navtree.Node {
	c := navtree.Category{Label: label}
	seg := label
	if seg == "" {
		seg = "(unlabeled)"
	}
	p := parent.Child(seg)
	c.Children = n.items(itemsNode, p)
	if len(c.Children) == 0 {
		n.warn(p, at, "category has no items")
	}
	return c
}

func hasReservedKey(fields map[string]*yaml.Node) bool {
	for _, k := range []string{keyType, keyLabel, keyItems, keyID} {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}

func scalarValue(node *yaml.Node) string {
	node = resolve(node)
	if node == nil || node.Kind != yaml.ScalarNode || isNull(node) {
		return ""
	}
	return strings.TrimSpace(node.Value)
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
