package providers

import (
	"context"
	"errors"
	"fmt"

	"caterer/internal/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// LangChainProvider implements the Provider interface on top of any langchaingo model
type LangChainProvider struct {
	model       llms.Model
	name        string
	temperature float64
	maxTokens   int
}

// NewLangChainProvider wraps an already constructed langchaingo model
func NewLangChainProvider(name string, model llms.Model, temperature float64, maxTokens int) *LangChainProvider {
	return &LangChainProvider{
		model:       model,
		name:        name,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// NewOpenAIProvider creates a provider for OpenAI or any OpenAI-compatible endpoint
func NewOpenAIProvider(cfg config.LLMConfig) (*LangChainProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required for the openai provider")
	}

	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}

	return NewLangChainProvider("openai", client, cfg.Temperature, cfg.MaxTokens), nil
}

// Name returns the provider name
func (p *LangChainProvider) Name() string {
	return p.name
}

// Complete implements the Provider interface
func (p *LangChainProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	content := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		var msgType schema.ChatMessageType
		switch msg.Role {
		case RoleSystem:
			msgType = schema.ChatMessageTypeSystem
		case RoleAssistant:
			msgType = schema.ChatMessageTypeAI
		case RoleUser:
			msgType = schema.ChatMessageTypeHuman
		default:
			return "", fmt.Errorf("unsupported message role: %s", msg.Role)
		}
		content[i] = llms.TextParts(msgType, msg.Content)
	}

	opts := []llms.CallOption{llms.WithTemperature(p.temperature)}
	if p.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(p.maxTokens))
	}

	resp, err := p.model.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", p.name)
	}

	return resp.Choices[0].Content, nil
}
