package tfidf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func TestEmbedder_PrepareAndEmbed(t *testing.T) {
	ctx := context.Background()
	e, err := NewEmbedder("cpu")
	require.NoError(t, err)

	require.NoError(t, e.Prepare(ctx, []string{
		"Qdrant stores vectors for retrieval.",
		"The assistant answers questions about the document.",
	}))
	assert.Positive(t, e.Dimension())

	vec, err := e.Embed(ctx, "vectors retrieval")
	require.NoError(t, err)
	require.Len(t, vec, e.Dimension())

	nonZero := 0
	for _, v := range vec {
		if v != 0 {
			nonZero++
		}
	}
	assert.Equal(t, 2, nonZero)
}

func TestEmbedder_UnknownTokensYieldZeroVector(t *testing.T) {
	ctx := context.Background()
	e, err := NewEmbedder("")
	require.NoError(t, err)
	require.NoError(t, e.Prepare(ctx, []string{"alpha beta gamma"}))

	vec, err := e.Embed(ctx, "the of and")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbedder_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewEmbedder("cuda")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	e, err := NewEmbedder("cpu")
	require.NoError(t, err)
	_, err = e.Embed(ctx, "anything")
	require.Error(t, err)

	require.ErrorIs(t, e.Prepare(ctx, nil), domain.ErrInvalidInput)
	require.ErrorIs(t, e.Prepare(ctx, []string{"the and of"}), domain.ErrInvalidInput)
}

func TestEmbedder_PrepareReplacesVocabulary(t *testing.T) {
	ctx := context.Background()
	e, err := NewEmbedder("cpu")
	require.NoError(t, err)

	require.NoError(t, e.Prepare(ctx, []string{"one two three"}))
	assert.Equal(t, 3, e.Dimension())
	require.NoError(t, e.Prepare(ctx, []string{"four five"}))
	assert.Equal(t, 2, e.Dimension())
}
