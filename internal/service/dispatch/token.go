package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// Selection tokens are the opaque strings attached to menu buttons and sent
// back by the event source. They are versioned and structured so a malformed
// payload is rejected up front instead of surfacing as an index panic deep
// in a handler.

const tokenVersion = "v1"

// ErrMalformedToken reports a selection token the dispatcher cannot parse.
var ErrMalformedToken = errors.New("malformed selection token")

// TokenKind identifies what a selection token selects.
type TokenKind string

const (
	TokenProvider TokenKind = "provider"
	TokenModel    TokenKind = "model"
	TokenPersona  TokenKind = "persona"
)

// Token is a decoded menu selection.
type Token struct {
	Kind     TokenKind
	Provider string
	Model    string
	Persona  string
}

// ProviderToken encodes a provider choice (opens the model menu).
func ProviderToken(providerID string) string {
	return strings.Join([]string{tokenVersion, string(TokenProvider), providerID}, ":")
}

// ModelToken encodes a provider/model choice.
func ModelToken(providerID, modelID string) string {
	return strings.Join([]string{tokenVersion, string(TokenModel), providerID, modelID}, ":")
}

// PersonaToken encodes a persona choice.
func PersonaToken(personaID string) string {
	return strings.Join([]string{tokenVersion, string(TokenPersona), personaID}, ":")
}

// ParseToken decodes a selection token, rejecting anything that is not a
// well-formed token of the current version.
func ParseToken(raw string) (Token, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || parts[0] != tokenVersion {
		return Token{}, fmt.Errorf("%w: %q", ErrMalformedToken, raw)
	}

	switch TokenKind(parts[1]) {
	case TokenProvider:
		if len(parts) != 3 || parts[2] == "" {
			return Token{}, fmt.Errorf("%w: %q", ErrMalformedToken, raw)
		}
		return Token{Kind: TokenProvider, Provider: parts[2]}, nil
	case TokenModel:
		if len(parts) != 4 || parts[2] == "" || parts[3] == "" {
			return Token{}, fmt.Errorf("%w: %q", ErrMalformedToken, raw)
		}
		return Token{Kind: TokenModel, Provider: parts[2], Model: parts[3]}, nil
	case TokenPersona:
		if len(parts) != 3 || parts[2] == "" {
			return Token{}, fmt.Errorf("%w: %q", ErrMalformedToken, raw)
		}
		return Token{Kind: TokenPersona, Persona: parts[2]}, nil
	default:
		return Token{}, fmt.Errorf("%w: %q", ErrMalformedToken, raw)
	}
}
