package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/internal/logging"
	"go.uber.org/zap"
)

var (
	// ErrEmptyInput indicates empty or nil input texts
	ErrEmptyInput = errors.New("empty or nil input texts")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingFailed indicates embedding generation failure
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)

// Encoder maps texts to vectors of a fixed dimension.
type Encoder interface {
	// Encode returns one vector per text, in input order.
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension is the length of every returned vector.
	Dimension() int
	// Fingerprint identifies the provider, model and dimension; snapshots
	// built by one encoder are rejected by another.
	Fingerprint() string
	Close() error
}

// Providers.
const (
	ProviderFastEmbed = "fastembed"
	ProviderTEI       = "tei"
	ProviderHash      = "hash"
)

// DefaultModel is the sentence-transformers model used for recipes.
const DefaultModel = "sentence-transformers/all-MiniLM-L6-v2"

// Config selects and configures an encoder.
type Config struct {
	Provider  string
	Model     string
	CacheDir  string
	MaxLength int
	BaseURL   string
	Dimension int
	BatchSize int
	Timeout   time.Duration
}

// ParseProvider normalizes a provider name.
func ParseProvider(p string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(p)); v {
	case "", ProviderFastEmbed:
		return ProviderFastEmbed, nil
	case ProviderTEI, ProviderHash:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown provider %q (want fastembed, tei or hash)", ErrInvalidConfig, p)
	}
}

// New creates the encoder named by cfg.Provider, instrumented with metrics.
// Initialization failures are returned as is; there is no fallback provider.
func New(cfg Config, logger *logging.Logger) (Encoder, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	provider, err := ParseProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	var enc Encoder
	switch provider {
	case ProviderHash:
		enc, err = NewHashEncoder(cfg.Dimension)
	case ProviderTEI:
		enc, err = NewTEIEncoder(TEIConfig{
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			Dimension: cfg.Dimension,
			BatchSize: cfg.BatchSize,
			Timeout:   cfg.Timeout,
		})
	default:
		enc, err = NewFastEmbedEncoder(FastEmbedConfig{
			Model:     cfg.Model,
			CacheDir:  cfg.CacheDir,
			MaxLength: cfg.MaxLength,
			BatchSize: cfg.BatchSize,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s encoder: %w", provider, err)
	}
	logger.Info(context.Background(), "encoder ready",
		zap.String("provider", provider),
		zap.String("fingerprint", enc.Fingerprint()),
		zap.Int("dimension", enc.Dimension()))
	return Instrument(enc, provider, logger.Underlying()), nil
}

// EncodeOne embeds a single text.
func EncodeOne(ctx context.Context, enc Encoder, text string) ([]float32, error) {
	vecs, err := enc.Encode(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func fingerprint(provider, model string, dim int) string {
	return fmt.Sprintf("%s:%s:%d", provider, model, dim)
}

// checkVectors enforces the Encoder contract on provider output.
func checkVectors(vecs [][]float32, n, dim int) error {
	if len(vecs) != n {
		return fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbeddingFailed, len(vecs), n)
	}
	for i, v := range vecs {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrEmbeddingFailed, i, len(v), dim)
		}
	}
	return nil
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
