package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"docchat/internal/chunker"
	"docchat/internal/config"
	"docchat/internal/domain"
	"docchat/internal/embedding"
	"docchat/internal/llm"
	"docchat/internal/service"
	"docchat/internal/session"
	"docchat/internal/summarizer"
	"docchat/internal/vectorstore"
)

// wiring builds the collaborators from the fixed configuration. The backend
// is shared so the assistant queries with the embedder that indexed the
// document.
type wiring struct {
	ctx context.Context
	cfg *config.AppConfig
	log *zap.Logger

	mu      sync.Mutex
	backend *service.Backend
}

func newController(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) *session.Controller {
	w := &wiring{ctx: ctx, cfg: cfg, log: log}
	return session.NewController(
		session.Config{
			UploadDir:   cfg.Session.UploadDir,
			UploadName:  cfg.Session.UploadName,
			SettleDelay: time.Duration(cfg.Session.SettleDelayMS) * time.Millisecond,
		},
		w.embeddings,
		w.assistant,
		log,
	)
}

func (w *wiring) sharedBackend() (*service.Backend, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.backend != nil {
		return w.backend, nil
	}

	emb, err := embedding.New(w.ctx, w.cfg.Embedder, w.log)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}
	store, err := vectorstore.New(w.cfg.VectorStore)
	if err != nil {
		return nil, fmt.Errorf("vector store: %w", err)
	}
	var ch domain.Chunker
	switch w.cfg.Chunker.Type {
	case "sentence", "":
		ch = chunker.NewSentenceChunker(w.cfg.Chunker.SentencesPerChunk, w.cfg.Chunker.OverlapSentences)
	default:
		return nil, fmt.Errorf("unknown chunker %q: %w", w.cfg.Chunker.Type, domain.ErrInvalidInput)
	}
	var sum domain.Summarizer
	switch w.cfg.Summarizer.Type {
	case "frequency", "":
		sum = summarizer.NewFrequencySummarizer()
	default:
		return nil, fmt.Errorf("unknown summarizer %q: %w", w.cfg.Summarizer.Type, domain.ErrInvalidInput)
	}

	w.backend = &service.Backend{
		Chunker:          ch,
		Embedder:         emb,
		Store:            store,
		Summarizer:       sum,
		SummarySentences: w.cfg.Summarizer.MaxSentences,
		ForceRecreate:    w.cfg.VectorStore.ForceRecreate,
		Log:              w.log,
	}
	w.log.Info("backend ready",
		zap.String("embedder", emb.Name()),
		zap.String("model", w.cfg.Embedder.Model),
		zap.String("device", w.cfg.Embedder.Device),
		zap.Bool("normalize", w.cfg.Embedder.Normalize),
		zap.String("store", store.Name()))
	return w.backend, nil
}

func (w *wiring) embeddings() (session.EmbeddingsCreator, error) {
	b, err := w.sharedBackend()
	if err != nil {
		return nil, err
	}
	return service.NewEmbeddingsManager(b), nil
}

func (w *wiring) assistant() (session.Assistant, error) {
	b, err := w.sharedBackend()
	if err != nil {
		return nil, err
	}
	gen, err := llm.New(w.ctx, w.cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	w.log.Info("assistant ready",
		zap.String("llm", gen.Name()),
		zap.String("model", w.cfg.LLM.Model),
		zap.Float64("temperature", w.cfg.LLM.Temperature))
	return service.NewChatbotManager(b, gen, service.ChatbotOptions{
		TopK:        w.cfg.Chatbot.TopK,
		ShowSources: w.cfg.Chatbot.ShowSources,
	}), nil
}
