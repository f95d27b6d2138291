// Package config loads recipectl configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/embedding"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/internal/logging"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/recipe"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/retriever"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vecstore"
)

// Config is the complete recipectl configuration.
type Config struct {
	Corpus    CorpusConfig    `koanf:"corpus" yaml:"corpus"`
	Store     StoreConfig     `koanf:"store" yaml:"store"`
	Encoder   EncoderConfig   `koanf:"encoder" yaml:"encoder"`
	Retriever RetrieverConfig `koanf:"retriever" yaml:"retriever"`
	Logging   logging.Config  `koanf:"logging" yaml:"logging"`
}

// CorpusConfig locates the recipe files.
type CorpusConfig struct {
	// Dir is the directory of recipe files.
	Dir string `koanf:"dir" yaml:"dir"`
	// Pattern is a file name glob; "*" accepts every file.
	Pattern string `koanf:"pattern" yaml:"pattern"`
}

// StoreConfig configures the dual index store.
type StoreConfig struct {
	Path           string  `koanf:"path" yaml:"path"`
	Index          string  `koanf:"index" yaml:"index"`
	FilterStrategy string  `koanf:"filter_strategy" yaml:"filter_strategy"`
	CoverBase      float32 `koanf:"cover_base" yaml:"cover_base"`
}

// EncoderConfig configures the embedding encoder.
type EncoderConfig struct {
	Provider  string   `koanf:"provider" yaml:"provider"`
	Model     string   `koanf:"model" yaml:"model"`
	CacheDir  string   `koanf:"cache_dir" yaml:"cache_dir,omitempty"`
	MaxLength int      `koanf:"max_length" yaml:"max_length"`
	BaseURL   string   `koanf:"base_url" yaml:"base_url,omitempty"`
	Dimension int      `koanf:"dimension" yaml:"dimension,omitempty"`
	BatchSize int      `koanf:"batch_size" yaml:"batch_size"`
	Timeout   Duration `koanf:"timeout" yaml:"timeout"`
}

// RetrieverConfig configures the two-tier retriever.
type RetrieverConfig struct {
	MaxWeaknessDistance float64 `koanf:"max_weakness_distance" yaml:"max_weakness_distance"`
	CodePrefix          int     `koanf:"code_prefix" yaml:"code_prefix"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{Dir: "recipes", Pattern: recipe.DefaultPattern},
		Store: StoreConfig{
			Path:           "data/store",
			Index:          index.KindAuto,
			FilterStrategy: string(vecstore.FilterPartition),
			CoverBase:      1.3,
		},
		Encoder: EncoderConfig{
			Provider:  embedding.ProviderFastEmbed,
			Model:     embedding.DefaultModel,
			MaxLength: 512,
			BatchSize: 256,
			Timeout:   Duration(30 * time.Second),
		},
		Retriever: RetrieverConfig{CodePrefix: retriever.DefaultCodePrefix},
		Logging:   *logging.NewDefaultConfig(),
	}
}

// Validate checks enum values and ranges.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Corpus.Dir) == "" {
		errs = append(errs, errors.New("corpus.dir is required"))
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, errors.New("store.path is required"))
	}
	if _, err := index.ParseKind(c.Store.Index); err != nil {
		errs = append(errs, fmt.Errorf("store.index: %w", err))
	}
	if _, err := vecstore.ParseFilterStrategy(c.Store.FilterStrategy); err != nil {
		errs = append(errs, fmt.Errorf("store.filter_strategy: %w", err))
	}
	if c.Store.CoverBase != 0 && c.Store.CoverBase <= 1 {
		errs = append(errs, fmt.Errorf("store.cover_base must be greater than 1, got %v", c.Store.CoverBase))
	}
	if _, err := embedding.ParseProvider(c.Encoder.Provider); err != nil {
		errs = append(errs, fmt.Errorf("encoder.provider: %w", err))
	}
	if c.Encoder.BatchSize < 0 || c.Encoder.MaxLength < 0 || c.Encoder.Dimension < 0 {
		errs = append(errs, errors.New("encoder sizes must not be negative"))
	}
	if c.Retriever.MaxWeaknessDistance < 0 {
		errs = append(errs, errors.New("retriever.max_weakness_distance must not be negative"))
	}
	if c.Retriever.CodePrefix < 0 {
		errs = append(errs, errors.New("retriever.code_prefix must not be negative"))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	return errors.Join(errs...)
}

// EmbeddingConfig maps the encoder section to embedding.Config.
func (c *Config) EmbeddingConfig() embedding.Config {
	return embedding.Config{
		Provider:  c.Encoder.Provider,
		Model:     c.Encoder.Model,
		CacheDir:  c.Encoder.CacheDir,
		MaxLength: c.Encoder.MaxLength,
		BaseURL:   c.Encoder.BaseURL,
		Dimension: c.Encoder.Dimension,
		BatchSize: c.Encoder.BatchSize,
		Timeout:   c.Encoder.Timeout.Duration(),
	}
}

// VecstoreConfig maps the store section to vecstore.Config.
func (c *Config) VecstoreConfig() vecstore.Config {
	return vecstore.Config{
		Path:           c.Store.Path,
		Index:          c.Store.Index,
		FilterStrategy: c.Store.FilterStrategy,
		CoverBase:      c.Store.CoverBase,
	}
}

// RetrieverOptions maps the retriever section to retriever.Config.
func (c *Config) RetrieverOptions() retriever.Config {
	return retriever.Config{
		MaxWeaknessDistance: c.Retriever.MaxWeaknessDistance,
		CodePrefix:          c.Retriever.CodePrefix,
	}
}

// CorpusSource returns the recipe source for the corpus section.
func (c *Config) CorpusSource(logger *logging.Logger) *recipe.Source {
	return recipe.NewSource(c.Corpus.Dir, recipe.WithPattern(c.Corpus.Pattern), recipe.WithLogger(logger))
}
