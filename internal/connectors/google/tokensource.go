package google

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

// Scopes are the OAuth2 scopes requested for the service account.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveScope,
}

// serviceAccountType is the "type" value of a service-account key file.
const serviceAccountType = "service_account"

// ServiceAccountTokenSource creates a TokenSource from a service-account JSON key.
// The returned TokenSource can be used with option.WithTokenSource() when
// creating Google API services. Tokens are fetched lazily and cached until expiry.
func ServiceAccountTokenSource(ctx context.Context, keyJSON []byte) (oauth2.TokenSource, error) {
	if err := ValidateServiceAccount(keyJSON); err != nil {
		return nil, err
	}

	cfg, err := googleoauth.JWTConfigFromJSON(keyJSON, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: parse service account: %w", domain.ErrAuthInvalid, err)
	}

	return cfg.TokenSource(ctx), nil
}

// ValidateServiceAccount checks that keyJSON looks like a service-account key.
// It does not contact Google.
func ValidateServiceAccount(keyJSON []byte) error {
	if len(keyJSON) == 0 {
		return fmt.Errorf("%w: service account key is empty", domain.ErrAuthRequired)
	}

	var key struct {
		Type        string `json:"type"`
		ClientEmail string `json:"client_email"`
		PrivateKey  string `json:"private_key"`
	}
	if err := json.Unmarshal(keyJSON, &key); err != nil {
		return fmt.Errorf("%w: service account key is not valid JSON: %w", domain.ErrAuthInvalid, err)
	}
	if key.Type != serviceAccountType {
		return fmt.Errorf("%w: key type is %q, want %q", domain.ErrAuthInvalid, key.Type, serviceAccountType)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return fmt.Errorf("%w: service account key lacks client_email or private_key", domain.ErrAuthInvalid)
	}
	return nil
}

// ServiceAccountEmail returns the client_email of a key, for log messages.
func ServiceAccountEmail(keyJSON []byte) string {
	var key struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(keyJSON, &key); err != nil {
		return ""
	}
	return key.ClientEmail
}
