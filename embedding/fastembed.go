//go:build cgo

package embedding

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	fastembed "github.com/anush008/fastembed-go"
)

// FastEmbedConfig holds configuration for the FastEmbed encoder.
type FastEmbedConfig struct {
	// Model defaults to sentence-transformers/all-MiniLM-L6-v2.
	Model string
	// CacheDir defaults to ./local_cache.
	CacheDir string
	// MaxLength defaults to 512.
	MaxLength int
	// BatchSize defaults to 256.
	BatchSize int
}

// FastEmbedEncoder embeds text with a local ONNX model.
type FastEmbedEncoder struct {
	model     *fastembed.FlagEmbedding
	modelName string
	dimension int
	batchSize int
	mu        sync.Mutex
}

var modelMapping = map[string]fastembed.EmbeddingModel{
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-small-en":                      fastembed.BGESmallEN,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
	"BAAI/bge-base-en":                       fastembed.BGEBaseEN,
	"fast-all-MiniLM-L6-v2":                  fastembed.AllMiniLML6V2,
	"fast-bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"fast-bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
}

// NewFastEmbedEncoder loads the model, downloading it into CacheDir on first use.
func NewFastEmbedEncoder(cfg FastEmbedConfig) (*FastEmbedEncoder, error) {
	name := cfg.Model
	if name == "" {
		name = DefaultModel
	}
	model, ok := modelMapping[name]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported model %q", ErrInvalidConfig, name)
	}
	dimension, _ := modelDimension(name)

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(".", "local_cache")
	}
	maxLength := cfg.MaxLength
	if maxLength == 0 {
		maxLength = 512
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 256
	}
	showProgress := false
	flagEmbed, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                model,
		CacheDir:             cacheDir,
		MaxLength:            maxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing FastEmbed: %w", err)
	}
	return &FastEmbedEncoder{
		model:     flagEmbed,
		modelName: name,
		dimension: dimension,
		batchSize: batchSize,
	}, nil
}

// Encode embeds texts without passage/query prefixes so a recipe and an
// identical query string map to the same vector.
func (e *FastEmbedEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return nil, fmt.Errorf("%w: encoder closed", ErrEmbeddingFailed)
	}
	vecs, err := e.model.Embed(texts, e.batchSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if err := checkVectors(vecs, len(texts), e.dimension); err != nil {
		return nil, err
	}
	return vecs, nil
}

// Dimension returns the embedding dimension for the current model.
func (e *FastEmbedEncoder) Dimension() int { return e.dimension }

// Fingerprint identifies the model.
func (e *FastEmbedEncoder) Fingerprint() string {
	return fingerprint(ProviderFastEmbed, e.modelName, e.dimension)
}

// Close releases the ONNX session.
func (e *FastEmbedEncoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return nil
	}
	err := e.model.Destroy()
	e.model = nil
	return err
}
