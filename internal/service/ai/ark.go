package ai

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/JustM3Sunny/kuku/internal/model/persona"
	"github.com/JustM3Sunny/kuku/internal/model/provider"
)

// ArkConfig carries the Volcengine Ark credentials and endpoint.
type ArkConfig struct {
	APIKey    string
	AccessKey string
	SecretKey string
	BaseURL   string
	Region    string
}

// Enabled reports whether the required credentials are present.
func (c ArkConfig) Enabled() bool {
	return c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != "")
}

// ArkClient is a stateful-handle provider variant backed by Volcengine Ark.
// SetModel constructs a chat-model handle bound to the chosen model; handles
// are cached per model so concurrent conversations on different Ark models
// each reach their own binding.
type ArkClient struct {
	cfg     ArkConfig
	catalog *provider.Catalog

	mu       sync.RWMutex
	handles  map[string]model.ChatModel
	selected string
}

// NewArkClient builds the shared Ark client.
func NewArkClient(cfg ArkConfig, catalog *provider.Catalog) *ArkClient {
	return &ArkClient{
		cfg:     cfg,
		catalog: catalog,
		handles: make(map[string]model.ChatModel),
	}
}

// ProviderID implements Client.
func (c *ArkClient) ProviderID() string { return provider.IDArk }

// SetModel validates catalog membership and acquires a chat-model handle
// bound to the model, replacing nothing: previously acquired handles stay
// cached for conversations still using them.
func (c *ArkClient) SetModel(ctx context.Context, modelID string) error {
	if !c.catalog.HasModel(provider.IDArk, modelID) {
		return fmt.Errorf("%w: model %q is not available for ark", provider.ErrInvalidSelection, modelID)
	}

	c.mu.RLock()
	_, exists := c.handles[modelID]
	c.mu.RUnlock()

	if !exists {
		handle, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
			BaseURL:   c.cfg.BaseURL,
			Region:    c.cfg.Region,
			APIKey:    c.cfg.APIKey,
			AccessKey: c.cfg.AccessKey,
			SecretKey: c.cfg.SecretKey,
			Model:     modelID,
		})
		if err != nil {
			return upstreamError(provider.IDArk, fmt.Sprintf("failed to bind model %q", modelID), err)
		}
		c.mu.Lock()
		c.handles[modelID] = handle
		c.mu.Unlock()
	}

	c.mu.Lock()
	c.selected = modelID
	c.mu.Unlock()

	log.Printf("[ark] model set to %s", modelID)
	return nil
}

// Generate invokes the handle bound to the given model with a system-role
// persona prompt and the user text.
func (c *ArkClient) Generate(ctx context.Context, modelID string, p persona.Persona, text string) (string, error) {
	c.mu.RLock()
	if modelID == "" {
		modelID = c.selected
	}
	handle := c.handles[modelID]
	c.mu.RUnlock()

	if modelID == "" || handle == nil {
		return "", ErrModelNotSelected
	}

	resp, err := handle.Generate(ctx, []*schema.Message{
		schema.SystemMessage(p.Prompt),
		schema.UserMessage(text),
	})
	if err != nil {
		return "", upstreamError(provider.IDArk, "chat generation failed", err)
	}

	return resp.Content, nil
}
