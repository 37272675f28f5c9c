package env

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads the given .env files that exist, in order; a variable set
// by an earlier file (or the process) is not overridden by a later one.
// ENV_PATH, when set, replaces paths. Finding no file is only an error when
// env is "local" or empty.
func LoadDotEnv(env string, paths ...string) error {
	if p := os.Getenv("ENV_PATH"); p != "" {
		paths = []string{p}
	}

	var existing []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}

	if len(existing) == 0 {
		if env == "local" || env == "" {
			return fmt.Errorf("no env file found in %v: %w", paths, os.ErrNotExist)
		}
		slog.Debug("Skipping .env ...", "env", env)
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	slog.Debug("Loaded env files", "paths", existing)
	return nil
}

// IsMissing reports whether err only says no env file was found.
func IsMissing(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
