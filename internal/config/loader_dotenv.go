package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

func envFilePath() string {
	if v := getEnvString("ENV_FILE"); v != "" {
		return v
	}
	return defaultEnvFile
}

// loadDotEnv reads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error; a malformed one is.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
