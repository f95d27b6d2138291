package vector

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// EncodeEmbedding encodes a slice of float32 values as a little-endian
// sequence of IEEE 754 float32 values without a length prefix.
func EncodeEmbedding(vec []float32) ([]byte, error) {
	if len(vec) == 0 {
		return nil, nil
	}
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b, nil
}

// DecodeEmbedding decodes a BLOB produced by EncodeEmbedding.
func DecodeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vector: invalid embedding blob length %d (not multiple of 4)", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}

// DecodeEmbeddingDim decodes b and requires exactly dim components.
func DecodeEmbeddingDim(b []byte, dim int) ([]float32, error) {
	vec, err := DecodeEmbedding(b)
	if err != nil {
		return nil, err
	}
	if len(vec) != dim {
		return nil, fmt.Errorf("vector: embedding has %d components, want %d", len(vec), dim)
	}
	return vec, nil
}

func encodeLabels(labels []string) (string, error) {
	if labels == nil {
		labels = []string{}
	}
	data, err := json.Marshal(labels)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeLabels(s string) ([]string, error) {
	var labels []string
	if err := json.Unmarshal([]byte(s), &labels); err != nil {
		return nil, fmt.Errorf("vector: invalid label set %q: %w", s, err)
	}
	if len(labels) == 0 {
		return nil, nil
	}
	return labels, nil
}
