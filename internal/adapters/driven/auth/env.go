// Package auth loads the run's secrets from the process environment.
package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/missedcalls/internal/connectors/google"
	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/logger"
)

// Environment variables holding secrets.
const (
	// EnvGoogleCredsJSON holds the service-account key as JSON text.
	EnvGoogleCredsJSON = "GOOGLE_CREDS_JSON"

	// EnvGoogleCredsFile holds a path to the service-account key file.
	// Used only when EnvGoogleCredsJSON is empty.
	EnvGoogleCredsFile = "GOOGLE_CREDS_FILE"

	// EnvAircallToken holds the Aircall API bearer token.
	EnvAircallToken = "AIR_CALL_API_TOKEN"
)

// EnvLoader reads credentials from environment variables.
type EnvLoader struct {
	getenv   func(string) string
	readFile func(string) ([]byte, error)
}

// NewEnvLoader creates a loader over the process environment.
func NewEnvLoader() *EnvLoader {
	return NewEnvLoaderWith(os.Getenv, os.ReadFile)
}

// NewEnvLoaderWith creates a loader with custom lookups.
func NewEnvLoaderWith(getenv func(string) string, readFile func(string) ([]byte, error)) *EnvLoader {
	return &EnvLoader{getenv: getenv, readFile: readFile}
}

// Load reads every secret. The Google key is skipped when requireGoogle is false,
// which lets a dry run work with only the Aircall token.
func (l *EnvLoader) Load(requireGoogle bool) (*domain.Credentials, error) {
	token, err := l.AircallToken()
	if err != nil {
		return nil, err
	}
	creds := &domain.Credentials{AircallToken: token}

	if !requireGoogle {
		return creds, nil
	}

	key, err := l.GoogleServiceAccount()
	if err != nil {
		return nil, err
	}
	creds.GoogleServiceAccount = key

	return creds, nil
}

// AircallToken returns the Aircall bearer token.
func (l *EnvLoader) AircallToken() (string, error) {
	token := strings.TrimSpace(l.getenv(EnvAircallToken))
	if token == "" {
		return "", fmt.Errorf("%w: %s is not set", domain.ErrAuthRequired, EnvAircallToken)
	}
	return token, nil
}

// GoogleServiceAccount returns the service-account key, from the JSON variable
// or else from the file it names.
func (l *EnvLoader) GoogleServiceAccount() ([]byte, error) {
	var key []byte
	source := EnvGoogleCredsJSON

	if raw := strings.TrimSpace(l.getenv(EnvGoogleCredsJSON)); raw != "" {
		key = []byte(raw)
	} else if path := strings.TrimSpace(l.getenv(EnvGoogleCredsFile)); path != "" {
		data, err := l.readFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", domain.ErrAuthRequired, EnvGoogleCredsFile, err)
		}
		key = data
		source = EnvGoogleCredsFile
	} else {
		return nil, fmt.Errorf("%w: %s is not set", domain.ErrAuthRequired, EnvGoogleCredsJSON)
	}

	if err := google.ValidateServiceAccount(key); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	logger.Debug("Loaded Google service account %s from %s", google.ServiceAccountEmail(key), source)
	return key, nil
}
