package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

type fakeQdrant struct {
	mu      sync.Mutex
	size    int
	exists  bool
	apiKey  string
	points  []map[string]any
	deletes int
}

func (f *fakeQdrant) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apiKey = r.Header.Get("api-key")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/collections/docs":
		if !f.exists {
			http.Error(w, `{"status":{"error":"Not found"}}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"config": map[string]any{"params": map[string]any{
				"vectors": map[string]any{"size": f.size, "distance": "Cosine"},
			}}},
		})
	case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
		var body struct {
			Vectors struct {
				Size int `json:"size"`
			} `json:"vectors"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.size = body.Vectors.Size
		f.exists = true
		_, _ = w.Write([]byte(`{"result":true}`))
	case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
		var body struct {
			Points []map[string]any `json:"points"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.points = append(f.points, body.Points...)
		_, _ = w.Write([]byte(`{"result":{"status":"completed"}}`))
	case r.Method == http.MethodPost && r.URL.Path == "/collections/docs/points/search":
		_, _ = w.Write([]byte(`{"result":[{"id":"x","score":0.9,"payload":{"document_id":"d","chunk_id":"d:0","index":0,"page":2,"text":"hello"}}]}`))
	case r.Method == http.MethodDelete && r.URL.Path == "/collections/docs":
		f.deletes++
		if !f.exists {
			http.Error(w, "missing", http.StatusNotFound)
			return
		}
		f.exists = false
		_, _ = w.Write([]byte(`{"result":true}`))
	default:
		http.Error(w, "unexpected", http.StatusBadRequest)
	}
}

func newStorage(t *testing.T, f *fakeQdrant) *Storage {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewStorage(Config{URL: srv.URL + "/", APIKey: "secret", Collection: "docs"})
}

func TestStorage_InitCreatesMissingCollection(t *testing.T) {
	f := &fakeQdrant{}
	s := newStorage(t, f)
	require.NoError(t, s.Init(context.Background(), 4))
	assert.True(t, f.exists)
	assert.Equal(t, 4, f.size)
	assert.Equal(t, "secret", f.apiKey)
}

func TestStorage_InitRejectsDimensionMismatch(t *testing.T) {
	f := &fakeQdrant{exists: true, size: 8}
	s := newStorage(t, f)
	err := s.Init(context.Background(), 4)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStorage_UpsertUsesStableUUIDs(t *testing.T) {
	f := &fakeQdrant{}
	s := newStorage(t, f)
	ctx := context.Background()
	require.NoError(t, s.Init(ctx, 2))
	chunks := []domain.Chunk{{DocumentID: "d", ChunkID: "d:0", Text: "hello", Page: 2}}
	require.NoError(t, s.Upsert(ctx, chunks, [][]float64{{1, 0}}))
	require.NoError(t, s.Upsert(ctx, chunks, [][]float64{{1, 0}}))

	require.Len(t, f.points, 2)
	assert.Equal(t, PointID("d:0"), f.points[0]["id"])
	assert.Equal(t, f.points[0]["id"], f.points[1]["id"])
	payload := f.points[0]["payload"].(map[string]any)
	assert.Equal(t, float64(2), payload["page"])
}

func TestStorage_Search(t *testing.T) {
	f := &fakeQdrant{exists: true, size: 2}
	s := newStorage(t, f)
	res, err := s.Search(context.Background(), []float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "hello", res[0].Chunk.Text)
	assert.Equal(t, 2, res[0].Chunk.Page)
	assert.InDelta(t, 0.9, res[0].Score, 1e-9)
}

func TestStorage_ClearToleratesMissingCollection(t *testing.T) {
	f := &fakeQdrant{}
	s := newStorage(t, f)
	require.NoError(t, s.Clear(context.Background()))
	assert.Equal(t, 1, f.deletes)
}

func TestStorage_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	s := NewStorage(Config{URL: url, Collection: "docs"})
	err := s.Init(context.Background(), 2)
	require.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestPointID_IsDeterministicUUID(t *testing.T) {
	assert.Equal(t, PointID("a:1"), PointID("a:1"))
	assert.NotEqual(t, PointID("a:1"), PointID("a:2"))
	assert.Len(t, PointID("a:1"), 36)
}
