package embedding

import (
	"context"
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// LocalEncoder runs a sentence-transformer ONNX model in-process via hugot.
// It needs no network access once the model files are on disk.
type LocalEncoder struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

// NewLocalEncoder loads the feature-extraction model at modelPath.
func NewLocalEncoder(modelPath string) (*LocalEncoder, error) {
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "matcher-embedder",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create embedding pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create embedding pipeline: %w", err)
	}

	return &LocalEncoder{session: session, pipeline: pipeline}, nil
}

// Encode returns the embedding vector for text.
func (e *LocalEncoder) Encode(_ context.Context, text string) ([]float32, error) {
	result, err := e.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embedding generated")
	}
	return result.Embeddings[0], nil
}

// Close destroys the hugot session and its loaded model.
func (e *LocalEncoder) Close() error {
	if e.session != nil {
		return e.session.Destroy()
	}
	return nil
}
