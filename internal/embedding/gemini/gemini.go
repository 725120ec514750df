package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"docchat/internal/domain"
)

// Embedder calls the Gemini embedding API.
type Embedder struct {
	client    *genai.Client
	model     string
	taskType  string
	dimension int
}

// Config configures the Gemini embedder.
type Config struct {
	APIKeyEnv string
	Model     string
	TaskType  string
	// BaseURL overrides the Gemini API endpoint when set.
	BaseURL string
}

// NewEmbedder creates a Gemini embedder. The API key is read from the named
// environment variable.
func NewEmbedder(ctx context.Context, cfg Config) (*Embedder, error) {
	key := strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s: %w", cfg.APIKeyEnv, domain.ErrInvalidInput)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-004"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      key,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w: %w", err, domain.ErrInvalidInput)
	}
	return &Embedder{client: client, model: cfg.Model, taskType: cfg.TaskType}, nil
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "gemini" }

// Prepare probes the model once so Dimension is known before the store is initialised.
func (e *Embedder) Prepare(ctx context.Context, corpus []string) error {
	if e.dimension == 0 && len(corpus) > 0 {
		_, err := e.Embed(ctx, corpus[0])
		return err
	}
	return nil
}

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed returns an embedding vector for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	var config *genai.EmbedContentConfig
	if e.taskType != "" {
		config = &genai.EmbedContentConfig{TaskType: e.taskType}
	}
	resp, err := e.client.Models.EmbedContent(
		ctx,
		e.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
		config,
	)
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini embeddings: no embedding values returned: %w", domain.ErrInvalidInput)
	}
	values := resp.Embeddings[0].Values
	vec := make([]float64, len(values))
	for i, v := range values {
		vec[i] = float64(v)
	}
	if e.dimension == 0 {
		e.dimension = len(vec)
	}
	return vec, nil
}

func classify(err error) error {
	if code, ok := apiStatus(err); ok {
		return fmt.Errorf("gemini embeddings: %w: %w", err, domain.StatusSentinel(code))
	}
	if domain.IsTransport(err) {
		return fmt.Errorf("gemini embeddings: %w: %w", err, domain.ErrBackendUnavailable)
	}
	return fmt.Errorf("gemini embeddings: %w", err)
}

func apiStatus(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code, true
	}
	return 0, false
}
