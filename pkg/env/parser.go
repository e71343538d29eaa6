package env

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/emptypockets-dev/hubspot-cli/pkg/config"
)

// LoadDotenvFiles loads and merges multiple dotenv files with last-wins precedence
func LoadDotenvFiles(files []string, logger *slog.Logger) (map[string]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	result := make(map[string]string)

	for _, file := range files {
		// Expand ~ to home directory
		path, err := config.ResolvePath(file)
		if err != nil {
			return nil, fmt.Errorf("invalid dotenv file %q: %w", file, err)
		}

		// Check if file exists
		if _, err := os.Stat(path); os.IsNotExist(err) {
			logger.Warn("Dotenv file not found, skipping", "path", path)
			continue
		}

		// Load the dotenv file
		env, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse dotenv file %s: %w", path, err)
		}

		// Merge with last-wins precedence
		for key, value := range env {
			result[key] = value
		}
	}

	return result, nil
}

// Lookup returns the account variables from the dotenv files, overridden by
// the process environment
func Lookup(files []string, logger *slog.Logger) (map[string]string, error) {
	vars, err := LoadDotenvFiles(files, logger)
	if err != nil {
		return nil, err
	}

	for _, key := range AccountVars {
		if value, ok := os.LookupEnv(key); ok {
			vars[key] = value
		}
	}
	return vars, nil
}
