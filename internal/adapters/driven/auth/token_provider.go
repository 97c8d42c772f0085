package auth

import (
	"context"
	"fmt"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driven"
)

// Ensure StaticTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticTokenProvider)(nil)

// StaticTokenProvider provides a long-lived API token.
// Aircall tokens don't expire and don't require refresh.
type StaticTokenProvider struct {
	name  string
	token string
}

// NewStaticTokenProvider creates a token provider for a fixed token.
// name is the environment variable the token came from, used in errors.
func NewStaticTokenProvider(name, token string) *StaticTokenProvider {
	return &StaticTokenProvider{
		name:  name,
		token: token,
	}
}

// GetToken returns the token.
func (p *StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", fmt.Errorf("%w: %s is not set", domain.ErrAuthRequired, p.name)
	}
	return p.token, nil
}

// IsAuthenticated returns true if a token is present.
func (p *StaticTokenProvider) IsAuthenticated() bool {
	return p.token != ""
}
