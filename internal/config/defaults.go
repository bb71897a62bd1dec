package config

import "path/filepath"

// applyDefaults fills unset fields. A missing site section gets the full
// Rust Duino site settings; a partial one only gets a base URL.
func applyDefaults(cfg *Config) {
	if cfg.Site.Title == "" && cfg.Site.BaseURL == "" {
		cfg.Site = DefaultSite()
	}
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "/"
	}

	if cfg.Docs.Path == "" {
		cfg.Docs.Path = "docs"
	}
	if len(cfg.Docs.Extensions) == 0 {
		cfg.Docs.Extensions = []string{".md", ".mdx"}
	}
	if cfg.Sidebar.File == "" {
		cfg.Sidebar.File = "sidebars.yaml"
	}

	if cfg.Oracle.Type == "" {
		cfg.Oracle.Type = OracleFS
	}
	if cfg.Oracle.CacheTTL == "" {
		cfg.Oracle.CacheTTL = "30s"
	}
	if cfg.Oracle.Git.Repo == "" {
		cfg.Oracle.Git.Repo = "."
	}
	if cfg.Oracle.Git.Ref == "" {
		cfg.Oracle.Git.Ref = "HEAD"
	}
	if cfg.Oracle.Git.Path == "" {
		cfg.Oracle.Git.Path = filepath.ToSlash(cfg.Docs.Path)
	}
	if cfg.Oracle.NATS.Bucket == "" {
		cfg.Oracle.NATS.Bucket = "navbuilder-docs"
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(".navbuilder", "revisions.db")
	}
	if cfg.Events.Enabled() && cfg.Events.Subject == "" {
		cfg.Events.Subject = "navbuilder.events"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}

	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = "500ms"
	}
	if cfg.Watch.Recheck == "" {
		cfg.Watch.Recheck = "5m"
	}
}
