package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEncoderDeterministic(t *testing.T) {
	enc, err := NewHashEncoder(64)
	require.NoError(t, err)

	vecs, err := enc.Encode(context.Background(), []string{"CWE-89", "CWE-89", "SQL injection in java"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Len(t, vecs[0], 64)
	assert.Equal(t, vecs[0], vecs[1])

	d, err := vector.L2Distance(vecs[0], vecs[1])
	require.NoError(t, err)
	assert.Zero(t, d)

	var norm float64
	for _, v := range vecs[2] {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1, math.Sqrt(norm), 1e-5)
}

func TestHashEncoderSimilarity(t *testing.T) {
	enc, err := NewHashEncoder(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultHashDimension, enc.Dimension())

	vecs, err := enc.Encode(context.Background(), []string{
		"use parameterized queries for sql",
		"sql queries should be parameterized",
		"escape html output in templates",
	})
	require.NoError(t, err)
	near, _ := vector.L2Distance(vecs[0], vecs[1])
	far, _ := vector.L2Distance(vecs[0], vecs[2])
	assert.Less(t, near, far)
}

func TestHashEncoderErrors(t *testing.T) {
	_, err := NewHashEncoder(-1)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	enc, _ := NewHashEncoder(8)
	_, err = enc.Encode(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = enc.Encode(ctx, []string{"x"})
	assert.True(t, errors.Is(err, context.Canceled))

	vecs, err := enc.Encode(context.Background(), []string{""})
	require.NoError(t, err)
	assert.Len(t, vecs[0], 8)
}

func TestNewSelectsProvider(t *testing.T) {
	enc, err := New(Config{Provider: "HASH", Dimension: 16}, nil)
	require.NoError(t, err)
	defer enc.Close()
	assert.Equal(t, 16, enc.Dimension())
	assert.Equal(t, "hash:fnv1a-trigram:16", enc.Fingerprint())

	v, err := EncodeOne(context.Background(), enc, "CWE-79")
	require.NoError(t, err)
	assert.Len(t, v, 16)

	_, err = New(Config{Provider: "openai"}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
