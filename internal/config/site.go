package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
)

// Site is the site-wide metadata handed to the external renderer alongside
// the navigation tree. It is built once at startup and passed by value.
type Site struct {
	Title        string   `yaml:"title" json:"title"`
	Tagline      string   `yaml:"tagline,omitempty" json:"tagline,omitempty"`
	URL          string   `yaml:"url,omitempty" json:"url,omitempty"`
	BaseURL      string   `yaml:"base_url" json:"baseUrl"`
	Favicon      string   `yaml:"favicon,omitempty" json:"favicon,omitempty"`
	Organization string   `yaml:"organization,omitempty" json:"organizationName,omitempty"`
	ProjectSlug  string   `yaml:"project_slug,omitempty" json:"projectName,omitempty"`
	Algolia      *Algolia `yaml:"algolia,omitempty" json:"algolia,omitempty"`
	Navbar       Navbar   `yaml:"navbar,omitempty" json:"navbar"`
	Footer       Footer   `yaml:"footer,omitempty" json:"footer"`
	Versions     []string `yaml:"versions,omitempty" json:"versions,omitempty"`
}

// Algolia configures the hosted search integration.
type Algolia struct {
	APIKey           string   `yaml:"api_key" json:"apiKey"`
	IndexName        string   `yaml:"index_name" json:"indexName"`
	ContextualSearch bool     `yaml:"contextual_search,omitempty" json:"contextualSearch,omitempty"`
	FacetTags        []string `yaml:"facet_tags,omitempty" json:"facetTags,omitempty"`
}

// Navbar is the top navigation bar.
type Navbar struct {
	HideOnScroll     bool   `yaml:"hide_on_scroll,omitempty" json:"hideOnScroll,omitempty"`
	Logo             *Logo  `yaml:"logo,omitempty" json:"logo,omitempty"`
	Links            []Link `yaml:"links,omitempty" json:"items,omitempty"`
	VersionsDropdown bool   `yaml:"versions_dropdown,omitempty" json:"versionsDropdown,omitempty"`
}

// Logo is the navbar image.
type Logo struct {
	Alt     string `yaml:"alt,omitempty" json:"alt,omitempty"`
	Src     string `yaml:"src" json:"src"`
	SrcDark string `yaml:"src_dark,omitempty" json:"srcDark,omitempty"`
}

// Link points either inside the site (To) or outside it (Href).
type Link struct {
	Label    string `yaml:"label" json:"label"`
	To       string `yaml:"to,omitempty" json:"to,omitempty"`
	Href     string `yaml:"href,omitempty" json:"href,omitempty"`
	Position string `yaml:"position,omitempty" json:"position,omitempty"`
}

// Footer is the page footer.
type Footer struct {
	Style     string `yaml:"style,omitempty" json:"style,omitempty"`
	Copyright string `yaml:"copyright,omitempty" json:"copyright,omitempty"`
	Links     []Link `yaml:"links,omitempty" json:"links,omitempty"`
}

// DefaultSite returns the Rust Duino site settings.
func DefaultSite() Site {
	return Site{
		Title:        "Rust Duino",
		Tagline:      "Electronics Club Summer Project",
		URL:          "https://www.ory.sh/",
		BaseURL:      "/",
		Favicon:      "img/favico.png",
		Organization: "ory",
		ProjectSlug:  "rustduino",
		Algolia: &Algolia{
			APIKey:           os.Getenv("ALGOLIA_API_KEY"),
			IndexName:        "rustduino",
			ContextualSearch: true,
			FacetTags:        []string{"tags:rustduino", "tags:docs"},
		},
		Navbar: Navbar{
			HideOnScroll: true,
			Logo:         &Logo{Alt: "Rust Duino", Src: "img/rust-logo-blk.svg", SrcDark: "img/rust-logo-blk.svg"},
			Links: []Link{
				{Label: "GitHub", Href: "https://github.com/mshivam2409/rustduino", Position: "right"},
				{Label: "All versions", To: "/versions", Position: "right"},
			},
			VersionsDropdown: true,
		},
		Footer: Footer{
			Style:     "dark",
			Copyright: fmt.Sprintf("Copyright © %d Electronics Club, IIT Kanpur", time.Now().Year()),
		},
	}
}

// Clone returns a deep copy so callers cannot alias the slices of a shared Site.
func (s Site) Clone() Site {
	out := s
	if s.Algolia != nil {
		a := *s.Algolia
		a.FacetTags = slices.Clone(s.Algolia.FacetTags)
		out.Algolia = &a
	}
	if s.Navbar.Logo != nil {
		l := *s.Navbar.Logo
		out.Navbar.Logo = &l
	}
	out.Navbar.Links = slices.Clone(s.Navbar.Links)
	out.Footer.Links = slices.Clone(s.Footer.Links)
	out.Versions = slices.Clone(s.Versions)
	return out
}

// Validate checks the fields the renderer relies on.
func (s Site) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ferrors.ConfigError("site.title is required").Build()
	}
	if !strings.HasPrefix(s.BaseURL, "/") || !strings.HasSuffix(s.BaseURL, "/") {
		return ferrors.ConfigError("site.base_url must start and end with '/'").
			WithContext("base_url", s.BaseURL).Build()
	}
	if s.URL != "" {
		u, err := url.Parse(s.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ferrors.ConfigError("site.url must be an absolute URL").
				WithContext("url", s.URL).WithCause(err).Build()
		}
	}
	if s.Algolia != nil && strings.TrimSpace(s.Algolia.IndexName) == "" {
		return ferrors.ConfigError("site.algolia.index_name is required when algolia is configured").Build()
	}
	for _, group := range [][]Link{s.Navbar.Links, s.Footer.Links} {
		for i, l := range group {
			if err := l.validate(); err != nil {
				return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid site link").
					WithContext("index", i).WithContext("label", l.Label).Build()
			}
		}
	}
	return nil
}

func (l Link) validate() error {
	if strings.TrimSpace(l.Label) == "" {
		return fmt.Errorf("link label is required")
	}
	if (l.To == "") == (l.Href == "") {
		return fmt.Errorf("exactly one of to or href must be set")
	}
	return nil
}
