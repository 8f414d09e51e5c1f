// Package config resolves command configuration from flags, the environment
// and, as a last resort, the terminal.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// APIKeyEnv is the environment variable holding the OpenAI API key.
const APIKeyEnv = "OPENAI_API_KEY"

var ErrMissingAPIKey = errors.New("OpenAI API key is required to generate embeddings")

// Prompter asks the user for a value.
type Prompter interface {
	Prompt(message string) (string, error)
}

// Getenv looks up an environment variable. os.Getenv satisfies it.
type Getenv func(key string) string

// ResolveAPIKey picks the API key in order of precedence: explicit value,
// then the APIKeyEnv environment variable, then prompter. A nil getenv uses
// os.Getenv; a nil prompter disables prompting.
func ResolveAPIKey(explicit string, getenv Getenv, prompter Prompter) (string, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, nil
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if key := strings.TrimSpace(getenv(APIKeyEnv)); key != "" {
		return key, nil
	}
	if prompter == nil {
		return "", ErrMissingAPIKey
	}

	key, err := prompter.Prompt("Please enter your OpenAI API key: ")
	if err != nil {
		return "", fmt.Errorf("read API key: %w", err)
	}
	if key = strings.TrimSpace(key); key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}

// GetEnv returns the environment value for key or defaultValue when unset or empty.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvInt is GetEnv for integers. Unparsable values yield defaultValue.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

// GetEnvDuration is GetEnv for durations such as "500ms".
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
