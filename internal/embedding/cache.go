package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"docchat/internal/domain"
)

// WithCache wraps e with an expiring LRU keyed by embedder name, model and
// text. Prepare purges the cache because a refit (TF-IDF) changes every
// vector. A non-positive size or ttl returns e unchanged.
func WithCache(e domain.Embedder, model string, size int, ttl time.Duration, log *zap.Logger) domain.Embedder {
	if e == nil || size <= 0 || ttl <= 0 {
		return e
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &lruEmbedder{
		next:  e,
		model: model,
		cache: expirable.NewLRU[string, []float64](size, nil, ttl),
		log:   log,
	}
}

type lruEmbedder struct {
	next  domain.Embedder
	model string
	cache *expirable.LRU[string, []float64]
	log   *zap.Logger
}

func (l *lruEmbedder) Name() string { return l.next.Name() }

func (l *lruEmbedder) Prepare(ctx context.Context, corpus []string) error {
	l.cache.Purge()
	return l.next.Prepare(ctx, corpus)
}

func (l *lruEmbedder) Dimension() int { return l.next.Dimension() }

func (l *lruEmbedder) FitsCorpus() bool { return domain.FitsCorpus(l.next) }

func (l *lruEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := l.cacheKey(text)
	if cached, ok := l.cache.Get(key); ok {
		l.log.Debug("embedding cache hit", zap.String("embedder", l.next.Name()))
		return cloneEmbedding(cached), nil
	}
	res, err := l.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, cloneEmbedding(res))
	return res, nil
}

func (l *lruEmbedder) cacheKey(text string) string {
	h := sha256.New()
	h.Write([]byte(l.next.Name()))
	h.Write([]byte{0})
	h.Write([]byte(l.model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func cloneEmbedding(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	clone := make([]float64, len(values))
	copy(clone, values)
	return clone
}
