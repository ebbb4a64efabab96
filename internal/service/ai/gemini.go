package ai

import (
	"context"
	"fmt"
	"log"
	"sync"

	"google.golang.org/genai"

	"github.com/JustM3Sunny/kuku/internal/model/persona"
	"github.com/JustM3Sunny/kuku/internal/model/provider"
)

// GeminiClient is the stateful-handle provider variant. SetModel performs an
// upstream handshake that validates the model name with the service and
// records the binding; Generate invokes the bound model. This backend has no
// separate system-role channel, so the persona prompt is concatenated with
// the user text into a single prompt body.
type GeminiClient struct {
	api     *genai.Client
	catalog *provider.Catalog

	mu       sync.RWMutex
	bound    map[string]struct{}
	selected string
}

// NewGeminiClient builds the shared Gemini client.
func NewGeminiClient(ctx context.Context, apiKey string, catalog *provider.Catalog) (*GeminiClient, error) {
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		api:     api,
		catalog: catalog,
		bound:   make(map[string]struct{}),
	}, nil
}

// ProviderID implements Client.
func (c *GeminiClient) ProviderID() string { return provider.IDGemini }

// SetModel validates catalog membership, then asks the remote service for
// the model to establish the binding. A model name the service rejects
// surfaces as an upstream error and leaves the previous binding in place.
func (c *GeminiClient) SetModel(ctx context.Context, modelID string) error {
	if !c.catalog.HasModel(provider.IDGemini, modelID) {
		return fmt.Errorf("%w: model %q is not available for gemini", provider.ErrInvalidSelection, modelID)
	}

	if _, err := c.api.Models.Get(ctx, modelID, nil); err != nil {
		return upstreamError(provider.IDGemini, fmt.Sprintf("model %q rejected by service", modelID), err)
	}

	c.mu.Lock()
	c.bound[modelID] = struct{}{}
	c.selected = modelID
	c.mu.Unlock()

	log.Printf("[gemini] model set to %s", modelID)
	return nil
}

// Generate invokes the binding for the given model. Conversations re-assert
// their own model id here, so a handle bound by one conversation stays
// usable by every other conversation that selected the same model.
func (c *GeminiClient) Generate(ctx context.Context, modelID string, p persona.Persona, text string) (string, error) {
	c.mu.RLock()
	if modelID == "" {
		modelID = c.selected
	}
	_, ok := c.bound[modelID]
	c.mu.RUnlock()

	if modelID == "" || !ok {
		return "", ErrModelNotSelected
	}

	prompt := fmt.Sprintf("%s\n\nUser: %s", p.Prompt, text)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.api.Models.GenerateContent(ctx, modelID, contents, nil)
	if err != nil {
		return "", upstreamError(provider.IDGemini, "content generation failed", err)
	}

	reply := resp.Text()
	if reply == "" {
		return "", upstreamError(provider.IDGemini, "empty generation response", nil)
	}
	return reply, nil
}
