package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/config"
)

func writeConfig(t *testing.T, llmURL string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Session.UploadDir = dir
	cfg.Session.SettleDelayMS = 0
	cfg.Chunker.SentencesPerChunk = 1
	cfg.Chunker.OverlapSentences = 0
	cfg.Log.File = filepath.Join(dir, "docchat.log")
	cfg.LLM.BaseURL = llmURL
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.Save(path, cfg))
	return path
}

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte(
		"Qdrant stores embedding vectors. The capital of France is Paris. Go channels connect goroutines."), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEmbedCommand(t *testing.T) {
	cfgPath := writeConfig(t, "")
	out, err := execute(t, "--config", cfgPath, "embed", writeDoc(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Vector DB successfully created and stored in Memory! (3 chunks)")
}

func TestEmbedCommand_MissingFile(t *testing.T) {
	cfgPath := writeConfig(t, "")
	_, err := execute(t, "--config", cfgPath, "embed", filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
}

func TestAskCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","created":1,"model":"llama3.2:3b",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Paris."}}]}`))
	}))
	defer srv.Close()

	cfgPath := writeConfig(t, srv.URL)
	out, err := execute(t, "--config", cfgPath, "ask", writeDoc(t), "What", "is", "the", "capital", "of", "France?")
	require.NoError(t, err)
	assert.Contains(t, out, "Paris.")
	assert.Contains(t, out, "Sources: p. 1")
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	out, err := execute(t, "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tfidf", cfg.Embedder.Type)

	_, err = execute(t, "init", "--output", path)
	require.Error(t, err)
	_, err = execute(t, "init", "--output", path, "--force")
	require.NoError(t, err)
}

func TestMatchUploadExt(t *testing.T) {
	cfg := config.Default()
	matchUploadExt(cfg, "/tmp/Notes.TXT")
	assert.Equal(t, "docchat-upload.txt", cfg.Session.UploadName)
}
