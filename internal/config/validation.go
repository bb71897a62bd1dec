package config

import (
	"fmt"
	"strings"
	"time"

	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
)

// ValidateConfig checks a defaulted configuration, returning the first
// problem as a classified config error.
func ValidateConfig(cfg *Config) error {
	if err := cfg.Site.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Docs.Path) == "" {
		return configErr(fmt.Errorf("must not be empty"), "docs.path")
	}
	for _, ext := range cfg.Docs.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return configErr(fmt.Errorf("extension %q must start with '.'", ext), "docs.extensions")
		}
	}
	if err := validateOracle(cfg.Oracle); err != nil {
		return err
	}
	durations := []struct{ field, value string }{
		{"oracle.cache_ttl", cfg.Oracle.CacheTTL},
		{"watch.debounce", cfg.Watch.Debounce},
		{"watch.recheck", cfg.Watch.Recheck},
	}
	for _, d := range durations {
		if err := validateDuration(d.value); err != nil {
			return configErr(err, d.field)
		}
	}
	return nil
}

func validateOracle(o OracleConfig) error {
	switch o.Type {
	case OracleFS:
	case OracleGit:
		if o.Git.Ref == "" {
			return configErr(fmt.Errorf("must not be empty"), "oracle.git.ref")
		}
	case OracleNATS:
		if o.NATS.URL == "" {
			return configErr(fmt.Errorf("required for the nats oracle"), "oracle.nats.url")
		}
	case OracleStatic:
		if len(o.Static) == 0 {
			return configErr(fmt.Errorf("static oracle needs at least one id"), "oracle.static")
		}
	default:
		return configErr(fmt.Errorf("unsupported value %q", o.Type), "oracle.type")
	}
	return nil
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("duration %s must not be negative", s)
	}
	return nil
}

func configErr(err error, field string) error {
	return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").
		WithContext("field", field).Fatal().Build()
}
