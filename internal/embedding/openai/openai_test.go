package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func TestClient_Embed(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotModel, _ = body["model"].(string)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","model":"bge","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3]}],"usage":{"prompt_tokens":1,"total_tokens":1}}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, Model: "BAAI/bge-small-en", MaxRetries: -1})
	require.NoError(t, err)

	require.NoError(t, c.Prepare(context.Background(), []string{"hello"}))
	assert.Equal(t, 3, c.Dimension())

	vec, err := c.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "BAAI/bge-small-en", gotModel)
}

func TestClient_BadRequestIsInvalidInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"model not found","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, MaxRetries: -1})
	require.NoError(t, err)
	_, err = c.Embed(context.Background(), "hello")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_UnreachableIsBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: url, MaxRetries: -1})
	require.NoError(t, err)
	_, err = c.Embed(context.Background(), "hello")
	require.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestNewClient_HostedEndpointNeedsKey(t *testing.T) {
	t.Setenv("DOCCHAT_TEST_EMPTY_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "DOCCHAT_TEST_EMPTY_KEY"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
