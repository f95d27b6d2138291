//go:build !cgo

package embedding

import (
	"context"
	"errors"
)

// ErrFastEmbedNotAvailable is returned when FastEmbed is not available (requires CGO).
var ErrFastEmbedNotAvailable = errors.New("fastembed: not available (binary built without CGO support, use the tei or hash provider instead)")

// FastEmbedConfig holds configuration for the FastEmbed encoder.
type FastEmbedConfig struct {
	Model     string
	CacheDir  string
	MaxLength int
	BatchSize int
}

// FastEmbedEncoder is a stub for non-CGO builds.
type FastEmbedEncoder struct{}

// NewFastEmbedEncoder returns an error when CGO is not available.
func NewFastEmbedEncoder(_ FastEmbedConfig) (*FastEmbedEncoder, error) {
	return nil, ErrFastEmbedNotAvailable
}

func (e *FastEmbedEncoder) Encode(_ context.Context, _ []string) ([][]float32, error) {
	return nil, ErrFastEmbedNotAvailable
}

func (e *FastEmbedEncoder) Dimension() int { return 0 }

func (e *FastEmbedEncoder) Fingerprint() string { return "" }

func (e *FastEmbedEncoder) Close() error { return nil }
