package dispatch

import (
	"errors"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Token
	}{
		{"provider", ProviderToken("groq"), Token{Kind: TokenProvider, Provider: "groq"}},
		{"model", ModelToken("groq", "llama-3.1-8b-instant"), Token{Kind: TokenModel, Provider: "groq", Model: "llama-3.1-8b-instant"}},
		{"persona", PersonaToken("chef"), Token{Kind: TokenPersona, Persona: "chef"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseToken(tc.raw)
			if err != nil {
				t.Fatalf("ParseToken(%q) err: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("ParseToken(%q) = %+v, want %+v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseTokenRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"model:groq:llama-3.1-8b-instant", // unversioned legacy format
		"v2:model:groq:x",
		"v1:model:groq",
		"v1:model:groq:",
		"v1:model::x",
		"v1:provider",
		"v1:provider:",
		"v1:provider:groq:extra",
		"v1:persona:",
		"v1:widget:groq",
		"garbage",
	}

	for _, raw := range cases {
		if _, err := ParseToken(raw); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("ParseToken(%q) = %v, want ErrMalformedToken", raw, err)
		}
	}
}
