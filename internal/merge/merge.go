// Package merge reconciles two revisions of a navigation tree.
//
// Sequences are matched by category label, then by document id. Base order
// is kept and items that only exist in the incoming tree are appended after
// the matched ones. A document placed under different categories in the two
// trees is a placement conflict: the incoming placement wins and the
// conflict is logged, never dropped.
package merge

import (
	"fmt"
	"strings"

	"github.com/Mshivam2409/rustduino/internal/navtree"
	"github.com/Mshivam2409/rustduino/internal/util/sets"
	"golang.org/x/text/unicode/norm"
)

// ResolutionIncoming marks a conflict resolved in favour of the incoming tree.
const ResolutionIncoming = "incoming"

// Conflict records a document whose parent category differs between revisions.
type Conflict struct {
	ID           string
	BasePath     navtree.Path
	IncomingPath navtree.Path
	Resolution   string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%q moved from %s to %s (kept %s)", c.ID, c.BasePath, c.IncomingPath, c.Resolution)
}

// ConflictLog lists conflicts in incoming walk order.
type ConflictLog []Conflict

// IDs returns the conflicting document ids.
func (l ConflictLog) IDs() []string {
	ids := make([]string, len(l))
	for i, c := range l {
		ids[i] = c.ID
	}
	return ids
}

// Trees merges incoming into base and returns a new, unfrozen tree together
// with the conflict log. Neither input is modified.
func Trees(base, incoming *navtree.Tree) (*navtree.Tree, ConflictLog) {
	basePlaces := base.Placements()
	incPlaces := incoming.Placements()

	m := &merger{moved: sets.New[string]()}
	var log ConflictLog
	for _, id := range incoming.DocIDs() {
		bp, inBase := basePlaces[id]
		if !inBase {
			continue
		}
		ip := incPlaces[id]
		if shareParent(bp, ip) {
			continue
		}
		m.moved.Add(id)
		log = append(log, Conflict{ID: id, BasePath: bp[0], IncomingPath: ip[0], Resolution: ResolutionIncoming})
	}

	return navtree.NewTree(m.seq(base.Nodes(), incoming.Nodes())...), log
}

// Fold merges trees left to right, concatenating conflict logs.
func Fold(trees ...*navtree.Tree) (*navtree.Tree, ConflictLog) {
	if len(trees) == 0 {
		return navtree.NewTree(), nil
	}
	acc := trees[0]
	var all ConflictLog
	for _, next := range trees[1:] {
		var log ConflictLog
		acc, log = Trees(acc, next)
		all = append(all, log...)
	}
	return navtree.NewTree(acc.Nodes()...), all
}

type merger struct {
	moved sets.Set[string]
}

func (m *merger) seq(base, incoming []navtree.Node) []navtree.Node {
	used := make([]bool, len(incoming))
	var out []navtree.Node

	for _, b := range base {
		switch x := b.(type) {
		case navtree.Category:
			if j := findCategory(incoming, used, x.Label); j >= 0 {
				used[j] = true
				inc := incoming[j].(navtree.Category)
				out = append(out, navtree.Category{Label: x.Label, Children: m.seq(x.Children, inc.Children)})
				continue
			}
			kids := m.seq(x.Children, nil)
			if len(kids) == 0 && len(x.Children) > 0 {
				// every child moved elsewhere
				continue
			}
			out = append(out, navtree.Category{Label: x.Label, Children: kids})

		case navtree.DocRef:
			if m.moved.Has(x.ID) {
				continue
			}
			if j := findDoc(incoming, used, x.ID); j >= 0 {
				used[j] = true
			}
			out = append(out, x)

		case navtree.Unresolved:
			if j := findEqual(incoming, used, b); j >= 0 {
				used[j] = true
			}
			if len(x.RawItems) > 0 {
				x.RawItems = m.seq(x.RawItems, nil)
			}
			out = append(out, x)

		default:
			if j := findEqual(incoming, used, b); j >= 0 {
				used[j] = true
			}
			out = append(out, b)
		}
	}

	for j, n := range incoming {
		if !used[j] {
			out = append(out, n)
		}
	}
	return out
}

func findCategory(nodes []navtree.Node, used []bool, label string) int {
	key := labelKey(label)
	for i, n := range nodes {
		if c, ok := n.(navtree.Category); ok && !used[i] && labelKey(c.Label) == key {
			return i
		}
	}
	return -1
}

func findDoc(nodes []navtree.Node, used []bool, id string) int {
	for i, n := range nodes {
		if d, ok := n.(navtree.DocRef); ok && !used[i] && d.ID == id {
			return i
		}
	}
	return -1
}

func findEqual(nodes []navtree.Node, used []bool, target navtree.Node) int {
	for i, n := range nodes {
		if !used[i] && navtree.Equal(n, target) {
			return i
		}
	}
	return -1
}

// labelKey makes labels that differ only in Unicode composition or
// surrounding whitespace match.
func labelKey(label string) string {
	return norm.NFC.String(strings.TrimSpace(label))
}

// shareParent reports whether any placement in a has the same enclosing
// category path as any placement in b.
func shareParent(a, b []navtree.Path) bool {
	for _, pa := range a {
		for _, pb := range b {
			if sameParent(pa.Parent(), pb.Parent()) {
				return true
			}
		}
	}
	return false
}

func sameParent(a, b navtree.Path) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if labelKey(a[i]) != labelKey(b[i]) {
			return false
		}
	}
	return true
}
