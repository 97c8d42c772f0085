package file

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/missedcalls/internal/logger"
)

// DefaultEnvFile is loaded when present.
const DefaultEnvFile = ".env"

// LoadDotEnv loads variables from path into the process environment.
// Variables already set are never overridden. A missing file is only an
// error when required is set.
func LoadDotEnv(path string, required bool) error {
	if path == "" {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if required {
			return fmt.Errorf("env file %s: %w", path, err)
		}
		logger.Debug("No env file at %s", path)
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	logger.Debug("Loaded environment from %s", path)
	return nil
}
