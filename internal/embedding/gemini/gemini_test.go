package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func TestNewEmbedder_MissingKey(t *testing.T) {
	t.Setenv("DOCCHAT_TEST_GEMINI_KEY", "")
	_, err := NewEmbedder(context.Background(), Config{APIKeyEnv: "DOCCHAT_TEST_GEMINI_KEY"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func newTestEmbedder(t *testing.T, h http.HandlerFunc) *Embedder {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Setenv("DOCCHAT_TEST_GEMINI_KEY", "k")
	e, err := NewEmbedder(context.Background(), Config{
		APIKeyEnv: "DOCCHAT_TEST_GEMINI_KEY",
		Model:     "embed-test",
		BaseURL:   srv.URL,
	})
	require.NoError(t, err)
	return e
}

func TestEmbedder_Embed(t *testing.T) {
	var path string
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		// both the single and the batch response shapes
		_, _ = w.Write([]byte(`{"embedding":{"values":[0.5,0.25,1]},"embeddings":[{"values":[0.5,0.25,1]}]}`))
	})

	require.NoError(t, e.Prepare(context.Background(), []string{"first chunk"}))
	assert.Equal(t, 3, e.Dimension())
	vec, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25, 1}, vec)
	assert.True(t, strings.Contains(path, "models/embed-test:"), path)
}

func TestEmbedder_ClassifiesAPIErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "not found", status: http.StatusNotFound, want: domain.ErrInvalidInput},
		{name: "forbidden", status: http.StatusForbidden, want: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprintf(w, `{"error":{"code":%d,"message":"nope","status":"FAILED"}}`, tt.status)
			})
			_, err := e.Embed(context.Background(), "hello")
			require.ErrorIs(t, err, tt.want)
			code, ok := apiStatus(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, code)
		})
	}
}
