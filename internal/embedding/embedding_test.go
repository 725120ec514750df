package embedding

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/config"
	"docchat/internal/domain"
)

type countingEmbedder struct {
	calls    int
	prepared int
	vec      []float64
	err      error
}

func (c *countingEmbedder) Name() string { return "counting" }

func (c *countingEmbedder) Prepare(context.Context, []string) error {
	c.prepared++
	return nil
}

func (c *countingEmbedder) Dimension() int { return len(c.vec) }

func (c *countingEmbedder) Embed(context.Context, string) ([]float64, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	out := make([]float64, len(c.vec))
	copy(out, c.vec)
	return out, nil
}

func TestNormalize(t *testing.T) {
	inner := &countingEmbedder{vec: []float64{3, 4}}
	e := Normalize(inner)

	vec, err := e.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, vec[0], 1e-9)
	assert.InDelta(t, 0.8, vec[1], 1e-9)
	assert.Equal(t, "counting", e.Name())
	assert.Equal(t, 2, e.Dimension())

	zero := Normalize(&countingEmbedder{vec: []float64{0, 0}})
	vec, err = zero.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, vec)
}

func TestNormalize_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Normalize(&countingEmbedder{err: boom}).Embed(context.Background(), "x")
	require.ErrorIs(t, err, boom)
}

func TestWithCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{vec: []float64{1, 2}}
	e := WithCache(inner, "m", 8, time.Minute, nil)

	first, err := e.Embed(ctx, "hello")
	require.NoError(t, err)
	first[0] = 99

	second, err := e.Embed(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, second)
	assert.Equal(t, 1, inner.calls)

	_, err = e.Embed(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)

	require.NoError(t, e.Prepare(ctx, []string{"corpus"}))
	assert.Equal(t, 1, inner.prepared)
	_, err = e.Embed(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestWithCache_Disabled(t *testing.T) {
	inner := &countingEmbedder{vec: []float64{1}}
	assert.Same(t, domain.Embedder(inner), WithCache(inner, "m", 0, time.Minute, nil))
}

func TestWithCache_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{err: errors.New("down")}
	e := WithCache(inner, "m", 8, time.Minute, nil)
	_, err := e.Embed(ctx, "x")
	require.Error(t, err)
	_, err = e.Embed(ctx, "x")
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestNew_TFIDF(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default().Embedder
	e, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "tfidf", e.Name())

	require.NoError(t, e.Prepare(ctx, []string{"alpha beta", "beta gamma"}))
	vec, err := e.Embed(ctx, "alpha beta")
	require.NoError(t, err)

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
	assert.True(t, domain.FitsCorpus(e))
}

func TestDecorators_ForwardFitsCorpus(t *testing.T) {
	fixed := &countingEmbedder{vec: []float64{1, 0}}
	assert.False(t, domain.FitsCorpus(Normalize(fixed)))
	assert.False(t, domain.FitsCorpus(WithCache(Normalize(fixed), "m", 4, time.Minute, nil)))
}

func TestNew_RejectsUnsupportedDevice(t *testing.T) {
	cfg := config.Default().Embedder
	cfg.Device = "cuda"
	_, err := New(context.Background(), cfg, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNew_UnknownType(t *testing.T) {
	cfg := config.Default().Embedder
	cfg.Type = "word2vec"
	_, err := New(context.Background(), cfg, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
