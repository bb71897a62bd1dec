package config

import "github.com/Mshivam2409/rustduino/internal/foundation/normalization"

// OracleType selects where document existence is looked up.
type OracleType string

const (
	// OracleFS scans the local docs directory.
	OracleFS OracleType = "fs"
	// OracleGit reads the docs directory from a git ref.
	OracleGit OracleType = "git"
	// OracleNATS lists keys of a JetStream key-value bucket.
	OracleNATS OracleType = "nats"
	// OracleStatic uses the ids listed in the configuration.
	OracleStatic OracleType = "static"
)

var oracleTypeNormalizer = normalization.NewEnumNormalizer("oracle type", map[string]OracleType{
	"fs":         OracleFS,
	"filesystem": OracleFS,
	"git":        OracleGit,
	"nats":       OracleNATS,
	"jetstream":  OracleNATS,
	"static":     OracleStatic,
}, OracleFS)

// NormalizeOracleType returns the canonical oracle type or an error listing
// the accepted values.
func NormalizeOracleType(raw string) (OracleType, error) {
	return oracleTypeNormalizer.NormalizeWithValidation(raw)
}
