package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultHashDimension is used when no dimension is configured.
const DefaultHashDimension = 256

// HashEncoder is a deterministic feature-hashing encoder: lower-cased word
// tokens and character trigrams are hashed into signed buckets and the
// result is L2-normalized. Texts sharing vocabulary land close together;
// identical texts map to identical vectors.
type HashEncoder struct {
	dim int
}

// NewHashEncoder creates a hashing encoder with dim buckets.
func NewHashEncoder(dim int) (*HashEncoder, error) {
	if dim == 0 {
		dim = DefaultHashDimension
	}
	if dim < 0 {
		return nil, fmt.Errorf("%w: negative dimension %d", ErrInvalidConfig, dim)
	}
	return &HashEncoder{dim: dim}, nil
}

// Encode embeds every text.
func (e *HashEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *HashEncoder) vector(text string) []float32 {
	vec := make([]float32, e.dim)
	lower := strings.ToLower(text)
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		e.add(vec, "w:"+tok, 1)
	}
	runes := []rune(" " + strings.Join(tokens, " ") + " ")
	for i := 0; i+3 <= len(runes); i++ {
		e.add(vec, "c:"+string(runes[i:i+3]), 0.5)
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec
}

func (e *HashEncoder) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// Dimension returns the bucket count.
func (e *HashEncoder) Dimension() int { return e.dim }

// Fingerprint identifies the hashing scheme.
func (e *HashEncoder) Fingerprint() string { return fingerprint(ProviderHash, "fnv1a-trigram", e.dim) }

// Close is a no-op.
func (e *HashEncoder) Close() error { return nil }
