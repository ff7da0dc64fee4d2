package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// APIKeyEnv holds the transcription service credential.
	APIKeyEnv = "ASSEMBLYAI_API_KEY"

	geminiKeyEnv  = "GEMINI_API_KEY"
	geminiKeysEnv = "GEMINI_API_KEYS"
)

// ErrMissingAPIKey is returned when the transcription credential is absent.
var ErrMissingAPIKey = errors.New(APIKeyEnv + " is not set")

// DefaultEnvFiles are tried in order when no explicit env file is given.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnv loads the first env file that exists. Variables already present in the
// process environment are not overridden. A missing file is not an error.
func LoadEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = DefaultEnvFiles
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return "", fmt.Errorf("load env file %s: %w", p, err)
		}
		return p, nil
	}

	return "", nil
}

// APIKey returns the transcription credential from the environment.
func APIKey() (string, error) {
	key := strings.TrimSpace(os.Getenv(APIKeyEnv))
	if key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}

// GeminiKeys returns every configured Gemini key, GEMINI_API_KEYS (comma separated) first.
func GeminiKeys() []string {
	var keys []string
	for _, k := range strings.Split(os.Getenv(geminiKeysEnv), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if k := strings.TrimSpace(os.Getenv(geminiKeyEnv)); k != "" {
		keys = append(keys, k)
	}
	return keys
}
