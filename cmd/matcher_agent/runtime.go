package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/embedding"
	"github.com/jonathan/resume-matcher/internal/index"
	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/matching"
)

// runtime bundles everything a command needs: the merged config, the logger,
// and the wired strategy dependencies.
type runtime struct {
	cfg     config.Config
	log     zerolog.Logger
	deps    matching.Deps
	cleanup []func() error
}

// loadConfig merges the config file (when given), environment, and defaults.
func loadConfig() (config.Config, error) {
	cfg := config.Config{}
	if flagConfig != "" {
		loaded, err := config.LoadConfig(flagConfig)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// newRuntime wires up strategy backends from the config. Backends that are
// not configured stay nil; strategies degrade to their documented fallbacks.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg: cfg,
		log: logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}),
	}

	deps := matching.Deps{
		Store:               embedding.NewStore(cfg.CachePath),
		Index:               index.New(cfg.IndexPath),
		ClassifierModelPath: cfg.ClassifierModelPath,
		JudgeOptions: matching.JudgeOptions{
			Timeout: time.Duration(cfg.JudgeTimeoutSeconds) * time.Second,
			Retries: cfg.JudgeRetries,
		},
		Logger: rt.log,
	}

	switch {
	case cfg.LocalModelPath != "":
		encoder, err := embedding.NewLocalEncoder(cfg.LocalModelPath)
		if err != nil {
			return nil, fmt.Errorf("initializing local encoder: %w", err)
		}
		deps.Encoder = encoder
		rt.cleanup = append(rt.cleanup, encoder.Close)
		rt.log.Debug().Str("model", cfg.LocalModelPath).Msg("using local embedding model")
	case cfg.APIKey != "":
		encoder, err := embedding.NewGeminiEncoder(ctx, cfg.APIKey, cfg.EmbeddingModel)
		if err != nil {
			return nil, fmt.Errorf("initializing Gemini encoder: %w", err)
		}
		deps.Encoder = encoder
		rt.cleanup = append(rt.cleanup, encoder.Close)
		rt.log.Debug().Str("model", cfg.EmbeddingModel).Msg("using Gemini embeddings")
	}

	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("initializing LLM client: %w", err)
		}
		deps.Judge = client
		deps.Pair = matching.NewLLMPairScorer(client)
		rt.cleanup = append(rt.cleanup, client.Close)
	}

	rt.deps = deps
	return rt, nil
}

// close releases backend resources in reverse acquisition order.
func (rt *runtime) close() {
	for i := len(rt.cleanup) - 1; i >= 0; i-- {
		if err := rt.cleanup[i](); err != nil {
			rt.log.Warn().Err(err).Msg("cleanup failed")
		}
	}
}

// persist flushes the embedding cache and index to disk.
func (rt *runtime) persist() {
	if rt.deps.Store != nil {
		if err := rt.deps.Store.Persist(); err != nil {
			rt.log.Warn().Err(err).Msg("persisting embedding cache")
		}
	}
	if rt.deps.Index != nil {
		if err := rt.deps.Index.Save(); err != nil {
			rt.log.Warn().Err(err).Msg("saving index")
		}
	}
}

// readJSONFile decodes a JSON file into dst.
func readJSONFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
