package render

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/Mshivam2409/rustduino/internal/config"
	"github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"github.com/Mshivam2409/rustduino/internal/foundation/normalization"
	"github.com/Mshivam2409/rustduino/internal/logfields"
	"github.com/Mshivam2409/rustduino/internal/navtree"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding of a rendered sidebar.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var formatNormalizer = normalization.NewEnumNormalizer("render format", map[string]Format{
	"json": FormatJSON,
	"yaml": FormatYAML,
	"yml":  FormatYAML,
}, FormatJSON)

// ParseFormat returns the canonical format for raw.
func ParseFormat(raw string) (Format, error) {
	return formatNormalizer.NormalizeWithValidation(raw)
}

// TitleFunc returns the display title of a document, or "" when unknown.
type TitleFunc func(id string) string

// Sidebar is the document handed to the site renderer.
type Sidebar struct {
	Site     config.Site   `json:"site" yaml:"site"`
	Name     string        `json:"name" yaml:"name"`
	Revision int           `json:"revision" yaml:"revision"`
	Items    []Instruction `json:"items" yaml:"items"`
}

// Adapter renders frozen trees against one site configuration.
type Adapter struct {
	site   config.Site
	titles TitleFunc
	logger *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTitles sets the resolver used to fill document titles.
func WithTitles(fn TitleFunc) Option {
	return func(a *Adapter) { a.titles = fn }
}

// WithLogger sets the adapter logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAdapter captures a copy of site; later changes to the caller's value do
// not affect rendered output.
func NewAdapter(site config.Site, opts ...Option) *Adapter {
	a := &Adapter{site: site.Clone(), logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Render projects t and attaches the site configuration.
func (a *Adapter) Render(name string, t *navtree.Tree) (*Sidebar, error) {
	items, err := Project(t)
	if err != nil {
		return nil, err
	}
	if a.titles != nil {
		for i := range items {
			if items[i].Kind == KindDoc {
				items[i].Title = a.titles(items[i].ID)
			}
		}
	}
	a.logger.Debug("Rendered sidebar",
		logfields.Sidebar(name),
		logfields.Revision(t.Revision()),
		slog.Int("items", len(items)))
	return &Sidebar{Site: a.site.Clone(), Name: name, Revision: t.Revision(), Items: items}, nil
}

// Encode writes s to w in the given format.
func Encode(w io.Writer, s *Sidebar, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "failed to encode sidebar").Build()
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "failed to encode sidebar").Build()
		}
		return nil
	}
}
