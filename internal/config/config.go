// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the matcher configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Matching
	Strategy string `json:"strategy,omitempty"` // Scoring strategy: lexical, semantic, crossencoder, classifier, llm
	TopN     int    `json:"top_n,omitempty"`    // Number of ranked candidates to return

	// Backends
	APIKey         string `json:"api_key,omitempty"`          // Gemini API key
	EmbeddingModel string `json:"embedding_model,omitempty"`  // Gemini embedding model name
	LocalModelPath string `json:"local_model_path,omitempty"` // ONNX model directory for local embeddings

	// Paths
	CachePath           string `json:"cache_path,omitempty"`            // Embedding cache snapshot
	IndexPath           string `json:"index_path,omitempty"`            // Vector index snapshot
	ClassifierModelPath string `json:"classifier_model_path,omitempty"` // Trained classifier model

	// Judge
	JudgeTimeoutSeconds int `json:"judge_timeout_seconds,omitempty"` // Per-call timeout for the LLM judge
	JudgeRetries        int `json:"judge_retries,omitempty"`         // Retries after a failed judge call

	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Behavior
	LogLevel  string `json:"log_level,omitempty"`  // zerolog level: debug, info, warn, error
	LogFormat string `json:"log_format,omitempty"` // "console" or "json"
	Verbose   bool   `json:"verbose,omitempty"`    // Print detailed result breakdowns
}

// Defaults returns the baseline configuration applied under explicit values.
func Defaults() Config {
	return Config{
		Strategy:            "lexical",
		TopN:                10,
		EmbeddingModel:      "text-embedding-004",
		CachePath:           ".matcher/embeddings.gob",
		IndexPath:           ".matcher/index.gob",
		ClassifierModelPath: ".matcher/classifier.gob",
		JudgeTimeoutSeconds: 30,
		JudgeRetries:        2,
		Port:                8080,
		LogLevel:            "info",
		LogFormat:           "console",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

var validStrategies = map[string]bool{
	"lexical":      true,
	"semantic":     true,
	"crossencoder": true,
	"classifier":   true,
	"llm":          true,
}

// Validate checks that the configuration has valid values.
// Required-field checks happen after merging, at the point of use.
func (c *Config) Validate() error {
	if c.Strategy != "" && !validStrategies[c.Strategy] {
		return fmt.Errorf("config error: unknown strategy %q", c.Strategy)
	}
	if c.TopN < 0 {
		return fmt.Errorf("config error: 'top_n' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be in [0, 65535]")
	}
	if c.JudgeTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'judge_timeout_seconds' must be non-negative")
	}
	if c.JudgeRetries < 0 {
		return fmt.Errorf("config error: 'judge_retries' must be non-negative")
	}
	if c.LocalModelPath != "" {
		if _, err := os.Stat(c.LocalModelPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: local model path not found: %s", c.LocalModelPath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Strategy == "" {
		result.Strategy = defaults.Strategy
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.EmbeddingModel == "" {
		result.EmbeddingModel = defaults.EmbeddingModel
	}
	if result.LocalModelPath == "" {
		result.LocalModelPath = defaults.LocalModelPath
	}
	if result.CachePath == "" {
		result.CachePath = defaults.CachePath
	}
	if result.IndexPath == "" {
		result.IndexPath = defaults.IndexPath
	}
	if result.ClassifierModelPath == "" {
		result.ClassifierModelPath = defaults.ClassifierModelPath
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.JudgeTimeoutSeconds == 0 {
		result.JudgeTimeoutSeconds = defaults.JudgeTimeoutSeconds
	}
	if result.JudgeRetries == 0 {
		result.JudgeRetries = defaults.JudgeRetries
	}

	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}
