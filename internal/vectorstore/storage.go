package vectorstore

import (
	"fmt"
	"time"

	"docchat/internal/config"
	"docchat/internal/domain"
	"docchat/internal/vectorstore/memory"
	"docchat/internal/vectorstore/qdrant"
)

// New builds the vector store selected by cfg.
func New(cfg config.VectorStoreConfig) (domain.VectorStore, error) {
	switch cfg.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.Qdrant == nil || cfg.Qdrant.URL == "" || cfg.Qdrant.Collection == "" {
			return nil, fmt.Errorf("qdrant url and collection are required: %w", domain.ErrInvalidInput)
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
			Distance:   cfg.Qdrant.Distance,
			Timeout:    time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store %q: %w", cfg.Type, domain.ErrInvalidInput)
	}
}
