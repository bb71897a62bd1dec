package render

import (
	"github.com/Mshivam2409/rustduino/internal/navtree"
)

// Kind is the instruction kind.
type Kind string

const (
	KindCategory Kind = "category"
	KindDoc      Kind = "doc"
)

// Instruction is one entry of the render stream. Categories carry Label,
// documents carry ID. IsLeaf is true for documents and for categories
// without children.
type Instruction struct {
	Depth  int    `json:"depth" yaml:"depth"`
	Kind   Kind   `json:"kind" yaml:"kind"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	IsLeaf bool   `json:"isLeaf" yaml:"is_leaf"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Project flattens t in pre-order. Depth starts at 0 for top-level nodes.
func Project(t *navtree.Tree) ([]Instruction, error) {
	if !t.Frozen() {
		return nil, ErrNotFrozen
	}
	out := make([]Instruction, 0, t.Len())
	err := t.Walk(func(p navtree.Path, depth int, n navtree.Node) error {
		switch x := n.(type) {
		case navtree.Category:
			out = append(out, Instruction{
				Depth:  depth,
				Kind:   KindCategory,
				Label:  x.Label,
				IsLeaf: len(x.Children) == 0,
			})
		case navtree.DocRef:
			out = append(out, Instruction{Depth: depth, Kind: KindDoc, ID: x.ID, IsLeaf: true})
		default:
			return ErrUnresolvedNode.WithContext("path", p.String())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
