package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OllamaConfig holds connection details for the local Ollama server.
type OllamaConfig struct {
	BaseURL             string `yaml:"base_url"`
	EmbedModel          string `yaml:"embed_model"`
	LLMModel            string `yaml:"llm_model"`
	EmbedTimeoutSecs    int    `yaml:"embed_timeout_secs"`
	GenerateTimeoutSecs int    `yaml:"generate_timeout_secs"`
}

// QdrantConfig contains connection details for a Qdrant document index.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// IndexConfig selects and configures the document index implementation.
type IndexConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus string       `yaml:"corpus"`
	TopK   int          `yaml:"top_k"`
	Ollama OllamaConfig `yaml:"ollama"`
	Index  IndexConfig  `yaml:"index"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/foodrag/config.yaml.
// If neither exists, it writes defaults to ~/.config/foodrag/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
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

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "foodrag", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Corpus == "" {
		cfg.Corpus = "foods.json"
	}
	if cfg.TopK == 0 {
		cfg.TopK = 3
	}
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = "http://localhost:11434"
	}
	if cfg.Ollama.EmbedModel == "" {
		cfg.Ollama.EmbedModel = "mxbai-embed-large"
	}
	if cfg.Ollama.LLMModel == "" {
		cfg.Ollama.LLMModel = "llama3.2"
	}
	if cfg.Ollama.EmbedTimeoutSecs == 0 {
		cfg.Ollama.EmbedTimeoutSecs = 30
	}
	if cfg.Ollama.GenerateTimeoutSecs == 0 {
		cfg.Ollama.GenerateTimeoutSecs = 60
	}
	if cfg.Index.Type == "" {
		cfg.Index.Type = "qdrant"
	}
	if cfg.Index.Type == "qdrant" {
		if cfg.Index.Qdrant == nil {
			cfg.Index.Qdrant = &QdrantConfig{}
		}
		if cfg.Index.Qdrant.URL == "" {
			cfg.Index.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.Index.Qdrant.Collection == "" {
			cfg.Index.Qdrant.Collection = "foods"
		}
		if cfg.Index.Qdrant.TimeoutSecs == 0 {
			cfg.Index.Qdrant.TimeoutSecs = 15
		}
	}
}
