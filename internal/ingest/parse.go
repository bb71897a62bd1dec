package ingest

import (
	"fmt"
	"os"

	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"gopkg.in/yaml.v3"
)

// DefaultSidebar names the single sidebar of a document whose top level is a
// bare item list.
const DefaultSidebar = "default"

// Sidebar is one raw, not yet normalized sidebar declaration.
type Sidebar struct {
	Name  string
	Items *yaml.Node
}

// Document is a parsed sidebars file with sidebars in declaration order.
type Document struct {
	Sidebars []Sidebar
}

// Parse decodes YAML or JSON sidebar declarations. It only fails when the
// input is not parseable or its top level has an unusable shape.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "parse sidebar document").Build()
	}

	doc := &Document{}
	top := resolve(&root)
	if top != nil && top.Kind == yaml.DocumentNode {
		if len(top.Content) == 0 {
			return doc, nil
		}
		top = resolve(top.Content[0])
	}
	if top == nil || top.Kind == 0 {
		return doc, nil
	}

	switch top.Kind {
	case yaml.SequenceNode:
		doc.Sidebars = append(doc.Sidebars, Sidebar{Name: DefaultSidebar, Items: top})
	case yaml.MappingNode:
		for i := 0; i+1 < len(top.Content); i += 2 {
			doc.Sidebars = append(doc.Sidebars, Sidebar{Name: top.Content[i].Value, Items: top.Content[i+1]})
		}
	default:
		return nil, ErrUnsupportedDocument.WithContext("line", top.Line)
	}
	return doc, nil
}

// ParseFile reads and parses a sidebars file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read sidebar file").
			WithContext("file", path).
			Build()
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Names lists the sidebar names in declaration order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Sidebars))
	for _, s := range d.Sidebars {
		names = append(names, s.Name)
	}
	return names
}

// Sidebar returns the named sidebar. An empty name selects the first one.
func (d *Document) Sidebar(name string) (Sidebar, error) {
	for _, s := range d.Sidebars {
		if name == "" || s.Name == name {
			return s, nil
		}
	}
	return Sidebar{}, ErrSidebarNotFound.WithContext("sidebar", name)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
