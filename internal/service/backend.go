package service

import (
	"sync"

	"go.uber.org/zap"

	"docchat/internal/domain"
)

// Backend bundles the retrieval components shared by the embeddings manager
// and the chatbot manager. Both must see the same embedder: a TF-IDF
// vocabulary fitted while indexing is what queries are embedded with.
type Backend struct {
	Chunker          domain.Chunker
	Embedder         domain.Embedder
	Store            domain.VectorStore
	Summarizer       domain.Summarizer
	SummarySentences int
	ForceRecreate    bool
	Log              *zap.Logger

	mu     sync.RWMutex
	chunks []domain.Chunk
}

func (b *Backend) logger() *zap.Logger {
	if b.Log == nil {
		return zap.NewNop()
	}
	return b.Log
}

// setChunks keeps the last indexed chunks for the lexical fallback.
func (b *Backend) setChunks(chunks []domain.Chunk) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks = chunks
}

func (b *Backend) indexedChunks() []domain.Chunk {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.chunks
}
