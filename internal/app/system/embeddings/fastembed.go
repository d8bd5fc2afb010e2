// internal/app/system/embeddings/fastembed.go

// Package embeddings provides local text embedding for the hybrid search
// backend via ONNX models.
package embeddings

import (
	"context"
	"fmt"
	"sync"

	fastembed "github.com/anush008/fastembed-go"
)

// Config holds embedder settings.
type Config struct {
	// Model is the embedding model name; defaults to BGESmallENV15.
	Model string
	// CacheDir caches downloaded model files.
	CacheDir string
	// MaxLength is the maximum input sequence length; defaults to 512.
	MaxLength int
}

// FastEmbed generates query embeddings with a local ONNX model. It is safe
// for concurrent use.
type FastEmbed struct {
	mu    sync.Mutex
	model *fastembed.FlagEmbedding
}

// New initializes the embedding model. The first call may download model
// files into cfg.CacheDir.
func New(cfg Config) (*FastEmbed, error) {
	model := fastembed.EmbeddingModel(cfg.Model)
	if cfg.Model == "" {
		model = fastembed.BGESmallENV15
	}
	maxLength := cfg.MaxLength
	if maxLength == 0 {
		maxLength = 512
	}
	showProgress := false
	fe, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                model,
		CacheDir:             cfg.CacheDir,
		MaxLength:            maxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing embedding model: %w", err)
	}
	return &FastEmbed{model: fe}, nil
}

// EmbedQuery embeds a single query string.
func (f *FastEmbed) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	vector, err := f.model.QueryEmbed(text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return vector, nil
}

// Close releases the underlying model.
func (f *FastEmbed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.model != nil {
		f.model.Destroy()
		f.model = nil
	}
	return nil
}
