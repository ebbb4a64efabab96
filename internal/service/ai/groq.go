package ai

import (
	"context"
	"fmt"
	"log"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/JustM3Sunny/kuku/internal/model/persona"
	"github.com/JustM3Sunny/kuku/internal/model/provider"
)

// DefaultGroqBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient is the stateless-HTTP provider variant. SetModel is a pure
// local assignment; every Generate call issues a single chat-completion
// request carrying a system-role persona prompt and a user-role message.
type GroqClient struct {
	api      *openai.Client
	catalog  *provider.Catalog
	mu       sync.RWMutex
	selected string
}

// NewGroqClient builds the shared Groq client. An empty baseURL falls back
// to Groq's public endpoint.
func NewGroqClient(apiKey, baseURL string, catalog *provider.Catalog) *GroqClient {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &GroqClient{
		api:     openai.NewClientWithConfig(cfg),
		catalog: catalog,
	}
}

// ProviderID implements Client.
func (c *GroqClient) ProviderID() string { return provider.IDGroq }

// SetModel validates catalog membership and records the chosen model.
// No network call is involved for this backend.
func (c *GroqClient) SetModel(_ context.Context, modelID string) error {
	if !c.catalog.HasModel(provider.IDGroq, modelID) {
		return fmt.Errorf("%w: model %q is not available for groq", provider.ErrInvalidSelection, modelID)
	}

	c.mu.Lock()
	c.selected = modelID
	c.mu.Unlock()

	log.Printf("[groq] model set to %s", modelID)
	return nil
}

// Generate issues one synchronous completion request for the given model.
func (c *GroqClient) Generate(ctx context.Context, modelID string, p persona.Persona, text string) (string, error) {
	if modelID == "" {
		c.mu.RLock()
		modelID = c.selected
		c.mu.RUnlock()
	}
	if modelID == "" {
		return "", ErrModelNotSelected
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.Prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", upstreamError(provider.IDGroq, "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", upstreamError(provider.IDGroq, "empty completion response", nil)
	}

	return resp.Choices[0].Message.Content, nil
}
