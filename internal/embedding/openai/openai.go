package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"docchat/internal/domain"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client is an OpenAI-compatible embeddings client implementing domain.Embedder.
// It also talks to Ollama and text-embeddings-inference through their
// OpenAI-compatible endpoints.
type Client struct {
	client     oai.Client
	model      string
	dimensions int
	dimension  int
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL    string
	APIKeyEnv  string
	Model      string
	Timeout    time.Duration
	Dimensions int
	MaxRetries int
}

// NewClient creates a new embeddings client using the provided configuration.
// An API key is only required for the hosted OpenAI endpoint.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		if strings.HasPrefix(cfg.BaseURL, defaultBaseURL) {
			return nil, fmt.Errorf("missing API key in env %s: %w", cfg.APIKeyEnv, domain.ErrInvalidInput)
		}
		key = "unused"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	// zero selects the default, negative disables retries
	retries := cfg.MaxRetries
	if retries == 0 {
		retries = 5
	}
	if retries < 0 {
		retries = 0
	}
	return &Client{
		client: oai.NewClient(
			option.WithAPIKey(key),
			option.WithBaseURL(cfg.BaseURL),
			option.WithRequestTimeout(t),
			option.WithMaxRetries(retries),
		),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai" }

// Prepare is not required for remote embedding. We will lazily set dimension on first embed.
func (c *Client) Prepare(ctx context.Context, corpus []string) error {
	if c.dimension == 0 && len(corpus) > 0 {
		_, err := c.Embed(ctx, corpus[0])
		return err
	}
	return nil
}

// Dimension returns the dimensionality of the produced embedding vectors.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	params := oai.EmbeddingNewParams{
		Input: oai.EmbeddingNewParamsInputUnion{OfString: oai.String(text)},
		Model: oai.EmbeddingModel(c.model),
	}
	if c.dimensions > 0 {
		params.Dimensions = oai.Int(int64(c.dimensions))
	}
	resp, err := c.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai embeddings: no embedding returned: %w", domain.ErrInvalidInput)
	}
	v := resp.Data[0].Embedding
	if c.dimension == 0 {
		c.dimension = len(v)
	}
	return v, nil
}

func classify(err error) error {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai embeddings: %w: %w", err, domain.StatusSentinel(apiErr.StatusCode))
	}
	if domain.IsTransport(err) {
		return fmt.Errorf("openai embeddings: %w: %w", err, domain.ErrBackendUnavailable)
	}
	return fmt.Errorf("openai embeddings: %w", err)
}
