// Package markdown extracts text from Markdown bodies with goldmark.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FirstHeading returns the plain text of the first level-one heading in a
// Markdown body (frontmatter already removed), or "" when there is none.
func FirstHeading(body []byte) string {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		if h.Level != 1 {
			return gmast.WalkSkipChildren, nil
		}
		var buf bytes.Buffer
		plainText(&buf, h, body)
		title = strings.TrimSpace(buf.String())
		return gmast.WalkStop, nil
	})
	return title
}

func plainText(buf *bytes.Buffer, n gmast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		default:
			plainText(buf, c, source)
		}
	}
}
