package api

import (
	"fmt"

	"github.com/notexe/reminderd/internal/config"
)

// NewProvider creates a Provider for the digest based on the configuration.
// A "none" provider yields nil: the digest then falls back to its plain
// text formatter.
func NewProvider(cfg config.DigestConfig) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderDeepSeek:
		return NewDeepSeekProvider(cfg.DeepSeek)

	case config.ProviderOllama:
		return NewOllamaProvider(cfg.Ollama)

	case config.ProviderNone, "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.Provider, config.ProviderDeepSeek, config.ProviderOllama, config.ProviderNone)
	}
}
