package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"docchat/internal/domain"
)

// Generator talks to any OpenAI-compatible chat completions endpoint,
// including a local Ollama server.
type Generator struct {
	client      oai.Client
	name        string
	model       string
	temperature float64
	maxTokens   int
}

// Config configures the generator. An empty APIKey is accepted for
// self-hosted endpoints that ignore it.
type Config struct {
	Name        string
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	// MaxRetries of zero keeps the client default, negative disables retries.
	MaxRetries int
}

func NewGenerator(cfg Config) *Generator {
	key := cfg.APIKey
	if key == "" {
		key = "unused"
	}
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.MaxRetries < 0 {
		opts = append(opts, option.WithMaxRetries(0))
	} else if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	name := cfg.Name
	if name == "" {
		name = "openai"
	}
	return &Generator{
		client:      oai.NewClient(opts...),
		name:        name,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (g *Generator) Name() string { return g.name }

func (g *Generator) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	var msgs []oai.ChatCompletionMessageParamUnion
	if prompt.System != "" {
		msgs = append(msgs, oai.SystemMessage(prompt.System))
	}
	msgs = append(msgs, oai.UserMessage(prompt.User))

	params := oai.ChatCompletionNewParams{
		Model:       oai.ChatModel(g.model),
		Messages:    msgs,
		Temperature: oai.Float(g.temperature),
	}
	if g.maxTokens > 0 {
		params.MaxTokens = oai.Int(int64(g.maxTokens))
	}
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", g.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty completion", g.name)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (g *Generator) classify(err error) error {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w: %w", g.name, err, domain.StatusSentinel(apiErr.StatusCode))
	}
	if domain.IsTransport(err) {
		return fmt.Errorf("%s: %w: %w", g.name, err, domain.ErrBackendUnavailable)
	}
	return fmt.Errorf("%s: %w", g.name, err)
}
