package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"docchat/internal/domain"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	Dimensions  int    `yaml:"dimensions,omitempty"`
}

// GeminiConfig holds configuration shared by the Gemini embedder and generator.
type GeminiConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
	TaskType  string `yaml:"task_type,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
}

// CacheConfig configures the in-process embedding cache. Size 0 disables it.
type CacheConfig struct {
	Size    int `yaml:"size"`
	TTLSecs int `yaml:"ttl_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type      string                `yaml:"type"`
	Model     string                `yaml:"model"`
	Device    string                `yaml:"device"`
	Normalize bool                  `yaml:"normalize"`
	Cache     CacheConfig           `yaml:"cache"`
	OpenAI    *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
	Gemini    *GeminiConfig         `yaml:"gemini,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Type              string `yaml:"type"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
	OverlapSentences  int    `yaml:"overlap_sentences"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type          string        `yaml:"type"`
	ForceRecreate bool          `yaml:"force_recreate"`
	Qdrant        *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	Distance    string `yaml:"distance"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// LLMConfig selects the generation backend used by the assistant.
type LLMConfig struct {
	Type        string  `yaml:"type"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	APIKeyEnv   string  `yaml:"api_key_env,omitempty"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// ChatbotConfig configures retrieval for the assistant.
type ChatbotConfig struct {
	TopK        int  `yaml:"top_k"`
	ShowSources bool `yaml:"show_sources"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// SessionConfig configures the interactive session.
type SessionConfig struct {
	UploadDir     string `yaml:"upload_dir"`
	UploadName    string `yaml:"upload_name"`
	SettleDelayMS int    `yaml:"settle_delay_ms"`
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	LLM         LLMConfig         `yaml:"llm"`
	Chatbot     ChatbotConfig     `yaml:"chatbot"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Session     SessionConfig     `yaml:"session"`
	Log         LogConfig         `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/docchat/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := DefaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultUserConfigPath returns ~/.config/docchat/config.yaml.
func DefaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docchat", "config.yaml"), nil
}

// Default returns the built-in configuration. It runs fully offline except for
// the LLM, which defaults to a local Ollama server.
func Default() *AppConfig {
	return &AppConfig{
		Embedder: EmbedderConfig{
			Type:      "tfidf",
			Model:     "BAAI/bge-small-en",
			Device:    "cpu",
			Normalize: true,
			Cache:     CacheConfig{Size: 1024, TTLSecs: 3600},
		},
		Chunker: ChunkerConfig{Type: "sentence", SentencesPerChunk: 5, OverlapSentences: 1},
		VectorStore: VectorStoreConfig{
			Type: "memory",
			Qdrant: &QdrantConfig{
				URL:         "http://localhost:6333",
				Collection:  "vector_db",
				Distance:    "Cosine",
				TimeoutSecs: 15,
			},
		},
		LLM: LLMConfig{
			Type:        "ollama",
			Model:       "llama3.2:3b",
			Temperature: 0.7,
			MaxTokens:   1024,
			BaseURL:     "http://localhost:11434/v1",
			TimeoutSecs: 120,
		},
		Chatbot:    ChatbotConfig{TopK: 4, ShowSources: true},
		Summarizer: SummarizerConfig{Type: "frequency", MaxSentences: 3},
		Session: SessionConfig{
			UploadDir:     os.TempDir(),
			UploadName:    "docchat-upload.pdf",
			SettleDelayMS: 1000,
		},
		Log: LogConfig{
			File:       "docchat.log",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.SentencesPerChunk == 0 {
		cfg.Chunker.SentencesPerChunk = 5
	}
	if cfg.Embedder.Device == "" {
		cfg.Embedder.Device = "cpu"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Embedder.Type == "gemini" {
		if cfg.Embedder.Gemini == nil {
			cfg.Embedder.Gemini = &GeminiConfig{}
		}
		if cfg.Embedder.Gemini.APIKeyEnv == "" {
			cfg.Embedder.Gemini.APIKeyEnv = "GEMINI_API_KEY"
		}
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant == nil {
		cfg.VectorStore.Qdrant = &QdrantConfig{}
	}
	if q := cfg.VectorStore.Qdrant; q != nil {
		if q.URL == "" {
			q.URL = "http://localhost:6333"
		}
		if q.Collection == "" {
			q.Collection = "vector_db"
		}
		if q.Distance == "" {
			q.Distance = "Cosine"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 15
		}
	}
	if cfg.LLM.APIKeyEnv == "" {
		switch cfg.LLM.Type {
		case "openai":
			cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
		case "anthropic":
			cfg.LLM.APIKeyEnv = "ANTHROPIC_API_KEY"
		case "gemini":
			cfg.LLM.APIKeyEnv = "GEMINI_API_KEY"
		}
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1024
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 120
	}
	if cfg.Chatbot.TopK == 0 {
		cfg.Chatbot.TopK = 4
	}
	if cfg.Session.UploadDir == "" {
		cfg.Session.UploadDir = os.TempDir()
	}
	if cfg.Session.UploadName == "" {
		cfg.Session.UploadName = "docchat-upload.pdf"
	}
}

// Validate reports the first configuration problem found. Every error wraps
// domain.ErrInvalidInput.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "tfidf", "openai", "gemini":
	default:
		return fmt.Errorf("unknown embedder %q: %w", c.Embedder.Type, domain.ErrInvalidInput)
	}
	switch c.Embedder.Device {
	case "cpu", "cuda", "mps":
	default:
		return fmt.Errorf("unknown device %q: %w", c.Embedder.Device, domain.ErrInvalidInput)
	}
	if c.Chunker.Type != "sentence" {
		return fmt.Errorf("unknown chunker %q: %w", c.Chunker.Type, domain.ErrInvalidInput)
	}
	switch c.VectorStore.Type {
	case "memory":
	case "qdrant":
		if c.VectorStore.Qdrant == nil || c.VectorStore.Qdrant.URL == "" || c.VectorStore.Qdrant.Collection == "" {
			return fmt.Errorf("qdrant url and collection are required: %w", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("unknown vector store %q: %w", c.VectorStore.Type, domain.ErrInvalidInput)
	}
	switch c.LLM.Type {
	case "ollama", "openai", "anthropic", "gemini":
	default:
		return fmt.Errorf("unknown llm %q: %w", c.LLM.Type, domain.ErrInvalidInput)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required: %w", domain.ErrInvalidInput)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2], got %v: %w", c.LLM.Temperature, domain.ErrInvalidInput)
	}
	if c.Chatbot.TopK <= 0 {
		return fmt.Errorf("chatbot.top_k must be positive, got %d: %w", c.Chatbot.TopK, domain.ErrInvalidInput)
	}
	if c.Summarizer.Type != "frequency" {
		return fmt.Errorf("unknown summarizer %q: %w", c.Summarizer.Type, domain.ErrInvalidInput)
	}
	if c.Session.SettleDelayMS < 0 {
		return fmt.Errorf("session.settle_delay_ms must not be negative: %w", domain.ErrInvalidInput)
	}
	return nil
}
