// Package embeddings provides text embedding generation via local ONNX models.
package embeddings

import (
	"context"
	"errors"
)

var (
	// ErrEmptyInput indicates empty or nil input texts
	ErrEmptyInput = errors.New("empty or nil input texts")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrModelLoad indicates the embedding model could not be constructed
	ErrModelLoad = errors.New("model load failed")

	// ErrEmbeddingFailed indicates embedding generation failure
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)

// Embedder maps text strings to fixed-length float32 vectors.
// Implementations must preserve input order: output[i] corresponds to texts[i].
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension returns the declared output width of the model.
	// It must not require the model to be loaded.
	Dimension() int
}

// Provider is an Embedder that owns releasable resources.
type Provider interface {
	Embedder
	// Close releases resources held by the provider.
	Close() error
}

// Factory constructs a Provider. Used by Lazy to defer model loading
// until first use.
type Factory func() (Provider, error)
