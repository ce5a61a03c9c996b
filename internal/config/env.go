package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; the first one that exists is loaded.
var envFiles = []string{".env", ".env.local"}

// LoadEnvFile loads the first .env file found in the working directory.
// Variables already set in the process environment win. It returns the
// loaded file name, or "" when none exists.
func LoadEnvFile() (string, error) {
	for _, name := range envFiles {
		if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return "", err
		}
		return name, nil
	}
	return "", nil
}
