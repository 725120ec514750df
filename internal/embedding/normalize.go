package embedding

import (
	"context"
	"math"

	"docchat/internal/domain"
)

// Normalize wraps e so every returned vector has unit L2 length. Zero vectors
// are returned unchanged.
func Normalize(e domain.Embedder) domain.Embedder {
	if e == nil {
		return nil
	}
	return &normalizer{next: e}
}

type normalizer struct {
	next domain.Embedder
}

func (n *normalizer) Name() string { return n.next.Name() }

func (n *normalizer) Prepare(ctx context.Context, corpus []string) error {
	return n.next.Prepare(ctx, corpus)
}

func (n *normalizer) Dimension() int { return n.next.Dimension() }

func (n *normalizer) FitsCorpus() bool { return domain.FitsCorpus(n.next) }

func (n *normalizer) Embed(ctx context.Context, text string) ([]float64, error) {
	vec, err := n.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return l2Normalize(vec), nil
}

func l2Normalize(vec []float64) []float64 {
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}
