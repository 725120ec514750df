package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"docchat/internal/config"
	"docchat/internal/domain"
	"docchat/internal/embedding/gemini"
	"docchat/internal/embedding/openai"
	"docchat/internal/embedding/tfidf"
)

// New builds the embedder selected by cfg and applies the normalize and cache
// decorators it asks for.
func New(ctx context.Context, cfg config.EmbedderConfig, log *zap.Logger) (domain.Embedder, error) {
	var (
		e   domain.Embedder
		err error
	)
	switch cfg.Type {
	case "tfidf", "":
		e, err = tfidf.NewEmbedder(cfg.Device)
	case "openai":
		oc := config.OpenAIEmbedderConfig{}
		if cfg.OpenAI != nil {
			oc = *cfg.OpenAI
		}
		e, err = openai.NewClient(openai.Config{
			BaseURL:    oc.BaseURL,
			APIKeyEnv:  oc.APIKeyEnv,
			Model:      cfg.Model,
			Timeout:    time.Duration(oc.TimeoutSecs) * time.Second,
			Dimensions: oc.Dimensions,
		})
	case "gemini":
		gc := config.GeminiConfig{APIKeyEnv: "GEMINI_API_KEY"}
		if cfg.Gemini != nil {
			gc = *cfg.Gemini
		}
		e, err = gemini.NewEmbedder(ctx, gemini.Config{
			APIKeyEnv: gc.APIKeyEnv,
			Model:     cfg.Model,
			TaskType:  gc.TaskType,
			BaseURL:   gc.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown embedder %q: %w", cfg.Type, domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Normalize {
		e = Normalize(e)
	}
	return WithCache(e, cfg.Model, cfg.Cache.Size, time.Duration(cfg.Cache.TTLSecs)*time.Second, log), nil
}
