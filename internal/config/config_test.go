package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipevec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 30*time.Second, cfg.EmbeddingConfig().Timeout)
	assert.Equal(t, "partition", cfg.VecstoreConfig().FilterStrategy)
	assert.Equal(t, 500, cfg.RetrieverOptions().CodePrefix)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
corpus:
  dir: /srv/recipes
  pattern: "*.txt"
store:
  path: /srv/store
  index: cover
  filter_strategy: scan
encoder:
  provider: tei
  base_url: http://localhost:8080
  timeout: 5s
retriever:
  max_weakness_distance: 0.25
logging:
  level: debug
  format: console
`)
	t.Setenv("RECIPEVEC_STORE_PATH", "/override/store")
	t.Setenv("RECIPEVEC_RETRIEVER_CODE_PREFIX", "200")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/recipes", cfg.Corpus.Dir)
	assert.Equal(t, "*.txt", cfg.Corpus.Pattern)
	assert.Equal(t, "/override/store", cfg.Store.Path)
	assert.Equal(t, "cover", cfg.Store.Index)
	assert.Equal(t, "scan", cfg.Store.FilterStrategy)
	assert.Equal(t, float32(1.3), cfg.Store.CoverBase)
	assert.Equal(t, "tei", cfg.Encoder.Provider)
	assert.Equal(t, 5*time.Second, cfg.Encoder.Timeout.Duration())
	assert.Equal(t, 0.25, cfg.Retriever.MaxWeaknessDistance)
	assert.Equal(t, 200, cfg.Retriever.CodePrefix)
	assert.Equal(t, zapcore.DebugLevel, cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	testCases := []struct {
		description string
		content     string
	}{
		{description: "unknown index", content: "store:\n  index: hnsw\n"},
		{description: "unknown strategy", content: "store:\n  filter_strategy: post\n"},
		{description: "unknown provider", content: "encoder:\n  provider: openai\n"},
		{description: "bad cover base", content: "store:\n  cover_base: 0.5\n"},
		{description: "negative distance", content: "retriever:\n  max_weakness_distance: -1\n"},
		{description: "bad log format", content: "logging:\n  format: xml\n"},
		{description: "bad duration", content: "encoder:\n  timeout: soon\n"},
		{description: "not yaml", content: "store: [\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsLargeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.yaml")
	require.NoError(t, os.WriteFile(path, make([]byte, maxConfigFileSize+1), 0o600))
	_, err := Load(path)
	assert.ErrorContains(t, err, "too large")
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Store.Index = "brute"
	cfg.Encoder.Timeout = Duration(90 * time.Second)
	path := filepath.Join(t.TempDir(), "nested", DefaultFile)
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "store.filter_strategy", envKey("RECIPEVEC_STORE_FILTER_STRATEGY"))
	assert.Equal(t, "corpus.dir", envKey("RECIPEVEC_CORPUS_DIR"))
	assert.Equal(t, "debug", envKey("RECIPEVEC_DEBUG"))
}
