package ingest

import (
	"bytes"

	"github.com/Mshivam2409/rustduino/internal/navtree"
	"gopkg.in/yaml.v3"
)

// NamedTree pairs a sidebar name with its tree for serialization.
type NamedTree struct {
	Name string
	Tree *navtree.Tree
}

// Marshal writes trees as a canonical sidebars document: categories in object
// form ({type, label, items}) and documents as bare ids. Parsing the output
// and normalizing it yields structurally equal trees.
func Marshal(sidebars ...NamedTree) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range sidebars {
		items, err := encodeItems(s.Tree.Nodes())
		if err != nil {
			return nil, err
		}
		root.Content = append(root.Content, str(s.Name), items)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeItems(nodes []navtree.Node) (*yaml.Node, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	if len(nodes) == 0 {
		seq.Style = yaml.FlowStyle
	}
	for _, n := range nodes {
		switch x := n.(type) {
		case navtree.DocRef:
			seq.Content = append(seq.Content, str(x.ID))
		case navtree.Category:
			items, err := encodeItems(x.Children)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, &yaml.Node{
				Kind: yaml.MappingNode,
				Content: []*yaml.Node{
					str(keyType), str(navtree.KindCategory.String()),
					str(keyLabel), str(x.Label),
					str(keyItems), items,
				},
			})
		default:
			return nil, ErrUnresolvedNode.WithContext("node", n)
		}
	}
	return seq, nil
}

func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
