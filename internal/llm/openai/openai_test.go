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

func TestGenerator_Generate(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":" It is 42. "}}]}`))
	}))
	defer srv.Close()

	g := NewGenerator(Config{Name: "ollama", BaseURL: srv.URL, Model: "llama3.2:3b", Temperature: 0.7})
	out, err := g.Generate(context.Background(), domain.Prompt{System: "sys", User: "question"})
	require.NoError(t, err)
	assert.Equal(t, "It is 42.", out)
	assert.Equal(t, "ollama", g.Name())
	assert.Equal(t, "llama3.2:3b", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "question", got.Messages[1].Content)
}

func TestGenerator_ClassifiesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"model not found","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	g := NewGenerator(Config{BaseURL: srv.URL, Model: "missing", MaxRetries: -1})
	_, err := g.Generate(context.Background(), domain.Prompt{User: "q"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	srv.Close()
	_, err = g.Generate(context.Background(), domain.Prompt{User: "q"})
	require.ErrorIs(t, err, domain.ErrBackendUnavailable)
}
