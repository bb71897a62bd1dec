package navtree

// ChangeKind classifies one entry of a revision change log.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeMoved   ChangeKind = "moved"
)

// Change describes how one document's placement differs between two trees.
type Change struct {
	Kind ChangeKind
	ID   string
	From Path // empty for additions
	To   Path // empty for removals
}

// Diff compares document placements of two trees. Additions and moves follow
// the walk order of next; removals follow the walk order of prev. A document
// is moved when its first enclosing category path changed; reordering among
// siblings is not reported.
func Diff(prev, next *Tree) []Change {
	before := prev.Placements()
	after := next.Placements()

	var changes []Change
	for _, id := range next.DocIDs() {
		to := after[id][0]
		from, existed := before[id]
		switch {
		case !existed:
			changes = append(changes, Change{Kind: ChangeAdded, ID: id, To: to})
		case !from[0].Parent().Equal(to.Parent()):
			changes = append(changes, Change{Kind: ChangeMoved, ID: id, From: from[0], To: to})
		}
	}
	for _, id := range prev.DocIDs() {
		if _, still := after[id]; !still {
			changes = append(changes, Change{Kind: ChangeRemoved, ID: id, From: before[id][0]})
		}
	}
	return changes
}
