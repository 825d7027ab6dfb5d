package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env.local and .env from projectRoot into the process environment.
// Variables already present in the environment are never overridden, and .env.local wins over .env.
func LoadDotEnv(projectRoot string) ([]string, error) {
	candidates := []string{
		filepath.Join(projectRoot, ".env.local"),
		filepath.Join(projectRoot, ".env"),
	}

	var loaded []string
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return loaded, fmt.Errorf("failed to load %s: %w", filepath.Base(envFile), err)
		}
		loaded = append(loaded, envFile)
	}
	return loaded, nil
}
