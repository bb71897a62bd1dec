package config

import (
	"log/slog"
	"os"

	"github.com/Mshivam2409/rustduino/internal/logfields"
	"github.com/joho/godotenv"
)

// envFiles are loaded in order. godotenv never overrides variables that are
// already set, so earlier files take precedence over later ones and the
// process environment over both.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles() []string {
	var loaded []string
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load environment file", logfields.File(path), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment file", logfields.File(path))
		loaded = append(loaded, path)
	}
	return loaded
}
