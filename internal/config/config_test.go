package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse_EmptyGetsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "Rust Duino", cfg.Site.Title)
	assert.Equal(t, "/", cfg.Site.BaseURL)
	assert.Equal(t, "docs", cfg.Docs.Path)
	assert.Equal(t, []string{".md", ".mdx"}, cfg.Docs.Extensions)
	assert.Equal(t, "sidebars.yaml", cfg.Sidebar.File)
	assert.Equal(t, OracleFS, cfg.Oracle.Type)
	assert.Equal(t, 30*time.Second, cfg.Oracle.CacheDuration())
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.DebounceDuration())
	assert.Equal(t, 5*time.Minute, cfg.Watch.RecheckInterval())
	assert.False(t, cfg.Events.Enabled())
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
}

func TestParse_FullFile(t *testing.T) {
	t.Setenv("NAVBUILDER_NATS", "nats://localhost:4222")
	cfg, err := Parse([]byte(`
site:
  title: Rust Duino
  tagline: Electronics Club Summer Project
  url: https://example.org/
  base_url: /docs/
  algolia:
    api_key: secret
    index_name: rustduino
  navbar:
    links:
      - label: GitHub
        href: https://github.com/mshivam2409/rustduino
        position: right
sidebar:
  file: docs/sidebars.yaml
  name: mySidebar
oracle:
  type: " JetStream "
  nats:
    url: ${NAVBUILDER_NATS}
events:
  url: ${NAVBUILDER_NATS}
logging:
  level: WARNING
  format: JSON
`))
	require.NoError(t, err)

	assert.Equal(t, "/docs/", cfg.Site.BaseURL)
	assert.Equal(t, "mySidebar", cfg.Sidebar.Name)
	assert.Equal(t, OracleNATS, cfg.Oracle.Type)
	assert.Equal(t, "nats://localhost:4222", cfg.Oracle.NATS.URL)
	assert.Equal(t, "navbuilder-docs", cfg.Oracle.NATS.Bucket)
	assert.True(t, cfg.Events.Enabled())
	assert.Equal(t, "navbuilder.events", cfg.Events.Subject)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Equal(t, slog.LevelWarn, cfg.Logging.Level.SlogLevel())
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"unknown oracle", "oracle:\n  type: carrier-pigeon\n", "oracle.type"},
		{"nats without url", "oracle:\n  type: nats\n", "oracle.nats.url"},
		{"static without ids", "oracle:\n  type: static\n", "oracle.static"},
		{"bad duration", "watch:\n  debounce: soon\n", "watch.debounce"},
		{"negative duration", "watch:\n  recheck: -1s\n", "watch.recheck"},
		{"bad extension", "docs:\n  extensions: [md]\n", "docs.extensions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			ce, ok := ferrors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, ferrors.CategoryConfig, ce.Category())
			field, _ := ce.Context().GetString("field")
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("sidebar:\n  fiel: typo.yaml\n"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestSite_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Site)
		ok     bool
	}{
		{"defaults", func(*Site) {}, true},
		{"empty title", func(s *Site) { s.Title = " " }, false},
		{"base url without slash", func(s *Site) { s.BaseURL = "docs" }, false},
		{"relative url", func(s *Site) { s.URL = "example.org" }, false},
		{"algolia without index", func(s *Site) { s.Algolia.IndexName = "" }, false},
		{"link with both targets", func(s *Site) { s.Navbar.Links[0].To = "/x" }, false},
		{"link without label", func(s *Site) { s.Footer.Links = []Link{{Href: "https://x.org"}} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSite()
			tt.mutate(&s)
			err := s.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig), "got %v", err)
			}
		})
	}
}

func TestSite_CloneDoesNotAlias(t *testing.T) {
	s := DefaultSite()
	c := s.Clone()
	c.Navbar.Links[0].Label = "changed"
	c.Algolia.IndexName = "changed"
	c.Navbar.Logo.Src = "changed"

	assert.Equal(t, "GitHub", s.Navbar.Links[0].Label)
	assert.Equal(t, "rustduino", s.Algolia.IndexName)
	assert.Equal(t, "img/rust-logo-blk.svg", s.Navbar.Logo.Src)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestLoad_EnvFilesDoNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("NAVBUILDER_TEST_TITLE=from-dotenv\nNAVBUILDER_TEST_SLUG=base\n"), 0o644))
	require.NoError(t, os.WriteFile(".env.local", []byte("NAVBUILDER_TEST_SLUG=local\n"), 0o644))
	t.Setenv("NAVBUILDER_TEST_TITLE", "from-env")
	t.Setenv("NAVBUILDER_TEST_SLUG", "")
	os.Unsetenv("NAVBUILDER_TEST_SLUG")

	path := writeConfig(t, "site:\n  title: ${NAVBUILDER_TEST_TITLE}\n  project_slug: ${NAVBUILDER_TEST_SLUG}\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Site.Title)
	assert.Equal(t, "local", cfg.Site.ProjectSlug)
	assert.Equal(t, "/", cfg.Site.BaseURL)
}

func TestLoad_ErrorCarriesPath(t *testing.T) {
	path := writeConfig(t, "oracle:\n  type: bogus\n")
	_, err := Load(path)
	require.Error(t, err)
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	got, _ := ce.Context().GetString("path")
	assert.Equal(t, path, got)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Init(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "${ALGOLIA_API_KEY}")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rustduino", cfg.Site.ProjectSlug)
	assert.Equal(t, "rustduino", cfg.Site.Algolia.IndexName)

	err = Init(path, false)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	require.NoError(t, Init(path, true))
}

func TestNormalizeEnums(t *testing.T) {
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel(" DEBUG "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("xml"))

	got, err := NormalizeOracleType("Filesystem")
	require.NoError(t, err)
	assert.Equal(t, OracleFS, got)
	_, err = NormalizeOracleType("ftp")
	assert.ErrorContains(t, err, "invalid oracle type")
}
