package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func chunk(id string) domain.Chunk {
	return domain.Chunk{DocumentID: "doc", ChunkID: id, Text: "text " + id}
}

func TestStorage_SearchRanksByCosine(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.NoError(t, s.Init(ctx, 2))
	require.NoError(t, s.Upsert(ctx,
		[]domain.Chunk{chunk("a"), chunk("b"), chunk("c")},
		[][]float64{{1, 0}, {0, 5}, {3, 3}},
	))

	res, err := s.Search(ctx, []float64{0, 2}, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "b", res[0].Chunk.ChunkID)
	assert.InDelta(t, 1.0, res[0].Score, 1e-9)
	assert.Equal(t, "c", res[1].Chunk.ChunkID)
}

func TestStorage_UpsertReplacesByChunkID(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.NoError(t, s.Init(ctx, 2))
	require.NoError(t, s.Upsert(ctx, []domain.Chunk{chunk("a")}, [][]float64{{1, 0}}))
	require.NoError(t, s.Upsert(ctx, []domain.Chunk{chunk("a")}, [][]float64{{0, 1}}))
	assert.Equal(t, 1, s.Len())

	res, err := s.Search(ctx, []float64{0, 1}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res[0].Score, 1e-9)
}

func TestStorage_InitKeepsPointsUnlessDimensionChanges(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.NoError(t, s.Init(ctx, 2))
	require.NoError(t, s.Upsert(ctx, []domain.Chunk{chunk("a")}, [][]float64{{1, 0}}))

	require.NoError(t, s.Init(ctx, 2))
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Init(ctx, 3))
	assert.Equal(t, 0, s.Len())
}

func TestStorage_Errors(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.ErrorIs(t, s.Init(ctx, 0), domain.ErrInvalidInput)
	require.ErrorIs(t, s.Upsert(ctx, []domain.Chunk{chunk("a")}, [][]float64{{1}}), domain.ErrInvalidInput)

	require.NoError(t, s.Init(ctx, 2))
	require.ErrorIs(t, s.Upsert(ctx, []domain.Chunk{chunk("a")}, nil), domain.ErrInvalidInput)
	require.ErrorIs(t, s.Upsert(ctx, []domain.Chunk{chunk("a")}, [][]float64{{1, 2, 3}}), domain.ErrInvalidInput)
	_, err := s.Search(ctx, []float64{1}, 1)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStorage_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	require.NoError(t, s.Init(ctx, 1))
	require.NoError(t, s.Upsert(ctx, []domain.Chunk{chunk("a")}, [][]float64{{1}}))
	require.NoError(t, s.Clear(ctx))
	res, err := s.Search(ctx, []float64{1}, 3)
	require.NoError(t, err)
	assert.Empty(t, res)
}
