// Package frontmatter reads the YAML header of Docusaurus documents.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a frontmatter
// block that never closes.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

const delimiter = "---"

var bom = []byte("\xef\xbb\xbf")

// Fields holds decoded frontmatter keys.
type Fields map[string]any

// String returns a scalar field as a string. Numbers and booleans are
// formatted; other kinds and missing keys give "".
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Split separates the frontmatter block from the Markdown body. A document
// without a leading delimiter line has no frontmatter and is all body. LF
// and CRLF line endings are both accepted.
func Split(content []byte) (header, body []byte, err error) {
	content = bytes.TrimPrefix(content, bom)

	first, rest, _ := cutLine(content)
	if string(first) != delimiter {
		return nil, content, nil
	}

	start := len(content) - len(rest)
	for pos := start; pos < len(content); {
		line, next, _ := cutLine(content[pos:])
		if string(line) == delimiter {
			return content[start:pos], next, nil
		}
		pos = len(content) - len(next)
	}
	return nil, nil, ErrMissingClosingDelimiter
}

// Parse splits content and decodes its frontmatter. Documents without
// frontmatter give empty Fields.
func Parse(content []byte) (Fields, []byte, error) {
	header, body, err := Split(content)
	if err != nil {
		return nil, nil, err
	}
	fields := Fields{}
	if len(bytes.TrimSpace(header)) == 0 {
		return fields, body, nil
	}
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return nil, nil, fmt.Errorf("decode frontmatter: %w", err)
	}
	if fields == nil {
		fields = Fields{}
	}
	return fields, body, nil
}

// cutLine returns the first line of b without its line ending, and the
// remainder. ok is false when b has no line ending.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return bytes.TrimSuffix(b, []byte("\r")), nil, false
	}
	return bytes.TrimSuffix(b[:i], []byte("\r")), b[i+1:], true
}
