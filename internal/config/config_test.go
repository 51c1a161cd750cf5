package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Success(t *testing.T) {
	path := writeConfig(t, `{"strategy": "semantic", "top_n": 5, "api_key": "test-key"}`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "semantic", cfg.Strategy)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, "test-key", cfg.APIKey)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{"strategy": `)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate_UnknownStrategy(t *testing.T) {
	cfg := Config{Strategy: "oracle"}
	assert.Error(t, cfg.Validate())
}

func TestValidate_ValidStrategies(t *testing.T) {
	for _, s := range []string{"lexical", "semantic", "crossencoder", "classifier", "llm", ""} {
		cfg := Config{Strategy: s}
		assert.NoError(t, cfg.Validate(), "strategy %q", s)
	}
}

func TestValidate_Ranges(t *testing.T) {
	assert.Error(t, (&Config{TopN: -1}).Validate())
	assert.Error(t, (&Config{Port: 70000}).Validate())
	assert.Error(t, (&Config{JudgeTimeoutSeconds: -1}).Validate())
	assert.Error(t, (&Config{JudgeRetries: -5}).Validate())
}

func TestValidate_MissingLocalModelPath(t *testing.T) {
	cfg := Config{LocalModelPath: filepath.Join(t.TempDir(), "missing-model")}
	assert.Error(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Strategy: "llm", TopN: 3}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "llm", merged.Strategy)
	assert.Equal(t, 3, merged.TopN)
	assert.Equal(t, "text-embedding-004", merged.EmbeddingModel)
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, "info", merged.LogLevel)
	assert.Equal(t, 30, merged.JudgeTimeoutSeconds)
}

func TestDefaults_AreValid(t *testing.T) {
	defaults := Defaults()
	assert.NoError(t, defaults.Validate())
}
