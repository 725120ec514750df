package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"docchat/internal/config"
	"docchat/internal/domain"
	"docchat/internal/llm/anthropic"
	"docchat/internal/llm/gemini"
	"docchat/internal/llm/openai"
)

const ollamaBaseURL = "http://localhost:11434/v1"

// New builds the generator selected by cfg. Hosted providers need their API
// key in the environment variable named by cfg.APIKeyEnv.
func New(ctx context.Context, cfg config.LLMConfig) (domain.Generator, error) {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	switch cfg.Type {
	case "ollama":
		base := cfg.BaseURL
		if base == "" {
			base = ollamaBaseURL
		}
		return openai.NewGenerator(openai.Config{
			Name:        "ollama",
			BaseURL:     base,
			APIKey:      os.Getenv(cfg.APIKeyEnv),
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     timeout,
		}), nil
	case "openai":
		key, err := apiKey(cfg)
		if err != nil {
			return nil, err
		}
		return openai.NewGenerator(openai.Config{
			BaseURL:     hostedBaseURL(cfg),
			APIKey:      key,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     timeout,
		}), nil
	case "anthropic":
		key, err := apiKey(cfg)
		if err != nil {
			return nil, err
		}
		return anthropic.NewGenerator(anthropic.Config{
			BaseURL:     hostedBaseURL(cfg),
			APIKey:      key,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     timeout,
		}), nil
	case "gemini":
		key, err := apiKey(cfg)
		if err != nil {
			return nil, err
		}
		return gemini.NewGenerator(ctx, gemini.Config{
			BaseURL:     hostedBaseURL(cfg),
			APIKey:      key,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		})
	default:
		return nil, fmt.Errorf("unknown llm %q: %w", cfg.Type, domain.ErrInvalidInput)
	}
}

// hostedBaseURL drops the local Ollama default so hosted providers use their
// own endpoint when only the type was changed.
func hostedBaseURL(cfg config.LLMConfig) string {
	if strings.TrimRight(cfg.BaseURL, "/") == ollamaBaseURL {
		return ""
	}
	return cfg.BaseURL
}

func apiKey(cfg config.LLMConfig) (string, error) {
	key := strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))
	if key == "" {
		return "", fmt.Errorf("%s: missing API key in env %q: %w", cfg.Type, cfg.APIKeyEnv, domain.ErrInvalidInput)
	}
	return key, nil
}
