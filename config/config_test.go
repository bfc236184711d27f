package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vsabench/harness"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	gen := cfg.GenerateConfig()
	assert.Equal(t, uint64(10_000), gen.Count)
	assert.Equal(t, 100, gen.Sparsity)
	assert.Equal(t, uint64(42), gen.Seed)

	hc, err := cfg.HarnessConfig()
	require.NoError(t, err)
	assert.Equal(t, harness.Quick, hc.Profile)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
profile: full
seed: 7
log_format: json
dataset:
  count: 1000000
  compression: zstd
retrieval:
  k: 5
  target_qps: 200
hierarchical:
  bounds:
    beam_width: 4
storage:
  s3_region: eu-central-1
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "full", cfg.Profile)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, uint64(1_000_000), cfg.Dataset.Count)
	assert.Equal(t, 10_000, cfg.Dataset.Dimension)
	assert.Equal(t, "zstd", cfg.Dataset.Compression)
	assert.Equal(t, 5, cfg.Retrieval.K)
	assert.Equal(t, 10, cfg.Retrieval.CandidateFactor)
	assert.Equal(t, 200.0, cfg.Retrieval.TargetQPS)
	assert.Equal(t, 4, cfg.Hierarchical.Bounds.BeamWidth)
	assert.Equal(t, 20, cfg.Hierarchical.Bounds.K)
	assert.Equal(t, "eu-central-1", cfg.Storage.S3Region)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	cfg := Default()
	cfg.Seed = 99
	cfg.Dataset.Sparsity = 7
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("profile: [unterminated"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"profile", func(c *Config) { c.Profile = "slow" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"compression", func(c *Config) { c.Dataset.Compression = "gzip" }},
		{"sparsity", func(c *Config) { c.Dataset.Sparsity = 6000 }},
		{"k", func(c *Config) { c.Retrieval.K = 0 }},
		{"target qps", func(c *Config) { c.Retrieval.TargetQPS = -1 }},
		{"fanout", func(c *Config) { c.Hierarchical.Fanout = 1 }},
		{"bounds k", func(c *Config) { c.Hierarchical.Bounds.K = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "debug"
	l, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
}
