package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TEIConfig configures a text-embeddings-inference client.
type TEIConfig struct {
	// BaseURL is the server root, e.g. http://localhost:8080.
	BaseURL string
	// Model names the served model; it only feeds the fingerprint.
	Model string
	// Dimension defaults to the known dimension of Model.
	Dimension int
	// BatchSize caps inputs per request; defaults to 32.
	BatchSize int
	// Timeout per request; defaults to 30s.
	Timeout time.Duration
}

// Validate validates the configuration.
func (c TEIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: dimension required for model %q", ErrInvalidConfig, c.Model)
	}
	return nil
}

// TEIEncoder calls the /embed endpoint of a TEI server.
type TEIEncoder struct {
	config TEIConfig
	client *http.Client
}

type teiRequest struct {
	Inputs   []string `json:"inputs"`
	Truncate bool     `json:"truncate"`
}

// NewTEIEncoder creates a TEI client.
func NewTEIEncoder(cfg TEIConfig) (*TEIEncoder, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimension == 0 {
		cfg.Dimension, _ = modelDimension(cfg.Model)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &TEIEncoder{config: cfg, client: &http.Client{Timeout: cfg.Timeout}}, nil
}

// Encode embeds texts in batches of BatchSize.
func (e *TEIEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.config.BatchSize {
		end := min(start+e.config.BatchSize, len(texts))
		vecs, err := e.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *TEIEncoder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(teiRequest{Inputs: texts, Truncate: true})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.BaseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", ErrEmbeddingFailed, resp.StatusCode, string(respBody))
	}
	var vecs [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&vecs); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrEmbeddingFailed, err)
	}
	if err := checkVectors(vecs, len(texts), e.config.Dimension); err != nil {
		return nil, err
	}
	return vecs, nil
}

// Dimension returns the configured dimension.
func (e *TEIEncoder) Dimension() int { return e.config.Dimension }

// Fingerprint identifies the served model.
func (e *TEIEncoder) Fingerprint() string {
	return fingerprint(ProviderTEI, e.config.Model, e.config.Dimension)
}

// Close is a no-op.
func (e *TEIEncoder) Close() error { return nil }
