package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Client is an abstraction over LLM providers.
type Client interface {
	// Generate produces text from a system prompt and a user prompt.
	Generate(ctx context.Context, systemPrompt, userPrompt string, tier ModelTier, maxTokens int32) (string, error)
	// GenerateStream produces text incrementally, calling onDelta with each
	// text increment as it arrives, and returns the full accumulated text.
	GenerateStream(ctx context.Context, systemPrompt, userPrompt string, tier ModelTier, maxTokens int32, onDelta func(string)) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, &AuthenticationError{Message: "API key is required"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

func (c *GeminiClient) model(systemPrompt string, tier ModelTier, maxTokens int32) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	model.SetMaxOutputTokens(maxTokens)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}
	return model, nil
}

// Generate produces text from a system prompt and a user prompt.
func (c *GeminiClient) Generate(ctx context.Context, systemPrompt, userPrompt string, tier ModelTier, maxTokens int32) (string, error) {
	model, err := c.model(systemPrompt, tier, maxTokens)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", Classify(err)
	}

	return extractTextFromResponse(resp)
}

// GenerateStream produces text incrementally. Each increment is handed to
// onDelta as soon as the provider yields it; the accumulated full text is
// returned on completion.
func (c *GeminiClient) GenerateStream(ctx context.Context, systemPrompt, userPrompt string, tier ModelTier, maxTokens int32, onDelta func(string)) (string, error) {
	model, err := c.model(systemPrompt, tier, maxTokens)
	if err != nil {
		return "", err
	}

	iter := model.GenerateContentStream(ctx, genai.Text(userPrompt))

	var full strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return full.String(), Classify(err)
		}
		delta, err := extractTextFromResponse(resp)
		if err != nil {
			continue // empty chunk
		}
		full.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}

	return full.String(), nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases client resources
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
