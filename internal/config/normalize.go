package config

// normalizeConfig canonicalizes enumerations before defaults apply. Log
// settings fall back silently; an unknown oracle type is an error because
// guessing would validate against the wrong document set.
func normalizeConfig(cfg *Config) error {
	if cfg.Logging.Level != "" {
		cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	}
	if cfg.Logging.Format != "" {
		cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	}
	if cfg.Oracle.Type != "" {
		t, err := NormalizeOracleType(string(cfg.Oracle.Type))
		if err != nil {
			return configErr(err, "oracle.type")
		}
		cfg.Oracle.Type = t
	}
	return nil
}
