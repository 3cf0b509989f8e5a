package providers

import (
	"fmt"

	"caterer/internal/config"
)

// New builds the provider selected by cfg.Provider
func New(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIProvider(cfg)
	case "azure":
		return NewAzureOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
