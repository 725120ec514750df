package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"docchat/internal/domain"
	"docchat/internal/loader"
)

// EmbeddingsManager turns a document on disk into vectors in the store.
type EmbeddingsManager struct {
	backend *Backend
	load    func(path string) (domain.Document, error)
}

func NewEmbeddingsManager(backend *Backend) *EmbeddingsManager {
	return &EmbeddingsManager{backend: backend, load: loader.Load}
}

// CreateEmbeddings loads, chunks, embeds and stores the document at path and
// returns a status line followed by a short summary of the document.
func (m *EmbeddingsManager) CreateEmbeddings(ctx context.Context, path string) (string, error) {
	b := m.backend
	log := b.logger().With(zap.String("path", path))

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("file %s does not exist: %w", path, domain.ErrDocumentNotFound)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	doc, err := m.load(path)
	if err != nil {
		return "", err
	}

	chunks, err := b.Chunker.Chunk(doc)
	if err != nil {
		return "", fmt.Errorf("chunk document: %w", err)
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("no chunks produced from %s: %w", path, domain.ErrInvalidInput)
	}
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	if err := b.Embedder.Prepare(ctx, texts); err != nil {
		return "", fmt.Errorf("prepare embedder: %w", err)
	}
	// a refitted vocabulary invalidates every stored vector
	if b.ForceRecreate || domain.FitsCorpus(b.Embedder) {
		if err := b.Store.Clear(ctx); err != nil {
			return "", fmt.Errorf("clear %s: %w", b.Store.Name(), err)
		}
	}
	if err := b.Store.Init(ctx, b.Embedder.Dimension()); err != nil {
		return "", fmt.Errorf("init %s: %w", b.Store.Name(), err)
	}

	vectors := make([][]float64, len(chunks))
	for i := range chunks {
		vec, err := b.Embedder.Embed(ctx, chunks[i].Text)
		if err != nil {
			return "", fmt.Errorf("embed chunk %s: %w", chunks[i].ChunkID, err)
		}
		vectors[i] = vec
	}
	if err := b.Store.Upsert(ctx, chunks, vectors); err != nil {
		return "", fmt.Errorf("upsert into %s: %w", b.Store.Name(), err)
	}
	b.setChunks(chunks)

	log.Info("embeddings created",
		zap.String("document_id", doc.ID),
		zap.String("embedder", b.Embedder.Name()),
		zap.String("store", b.Store.Name()),
		zap.Int("chunks", len(chunks)),
		zap.Int("dimension", b.Embedder.Dimension()))

	status := fmt.Sprintf("Vector DB successfully created and stored in %s! (%d chunks)", storeLabel(b.Store.Name()), len(chunks))
	if b.Summarizer == nil {
		return status, nil
	}
	summary, err := b.Summarizer.Summarize(doc.Content, b.SummarySentences)
	if err != nil {
		// the index is usable without a summary
		log.Warn("summarize failed", zap.Error(err))
		return status, nil
	}
	return status + "\n\nSummary: " + summary, nil
}

func storeLabel(name string) string {
	if name == "" {
		return "the vector store"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
