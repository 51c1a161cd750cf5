// Package embedding provides the dense-vector encoder abstraction and a
// key-addressed cache for computed embeddings.
package embedding

import "context"

// Encoder produces a fixed-length dense vector for a piece of text.
// Implementations wrap a concrete backend (remote API or local model); the
// core is agnostic to which one is plugged in.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
}

// EncoderFunc adapts a plain function to the Encoder interface.
type EncoderFunc func(ctx context.Context, text string) ([]float32, error)

// Encode calls f.
func (f EncoderFunc) Encode(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}
