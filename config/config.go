// Package config loads run configuration from YAML.
//
// Values in the file override Default; command-line flags override the
// file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/vsabench/dataset"
	"github.com/hupe1980/vsabench/harness"
	"github.com/hupe1980/vsabench/vsa"
)

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("config: invalid")

// DatasetConfig configures generate-dataset.
type DatasetConfig struct {
	Count     uint64 `yaml:"count"`
	Dimension int    `yaml:"dimension"`
	// Sparsity of 0 means dimension/100.
	Sparsity    int    `yaml:"sparsity,omitempty"`
	Seed        uint64 `yaml:"seed"`
	BatchSize   int    `yaml:"batch_size"`
	Compression string `yaml:"compression"`
	Output      string `yaml:"output,omitempty"`
	Upload      string `yaml:"upload,omitempty"`
}

// RetrievalConfig configures the retrieval benchmark.
type RetrievalConfig struct {
	InputDir        string  `yaml:"input_dir,omitempty"`
	Dataset         string  `yaml:"dataset,omitempty"`
	K               int     `yaml:"k"`
	CandidateFactor int     `yaml:"candidate_factor"`
	Queries         int     `yaml:"queries,omitempty"`
	TargetQPS       float64 `yaml:"target_qps,omitempty"`
}

// HierarchicalConfig configures the hierarchical benchmark.
type HierarchicalConfig struct {
	InputDir string          `yaml:"input_dir,omitempty"`
	Dataset  string          `yaml:"dataset,omitempty"`
	Fanout   int             `yaml:"fanout"`
	Queries  int             `yaml:"queries,omitempty"`
	Bounds   vsa.QueryBounds `yaml:"bounds"`
}

// StorageConfig holds object-store settings. AWS credentials always come
// from the default AWS chain.
type StorageConfig struct {
	S3Region       string `yaml:"s3_region,omitempty"`
	S3Endpoint     string `yaml:"s3_endpoint,omitempty"`
	MinioAccessKey string `yaml:"minio_access_key,omitempty"`
	MinioSecretKey string `yaml:"minio_secret_key,omitempty"`
	MinioSecure    bool   `yaml:"minio_secure,omitempty"`
}

// Config is the full run configuration.
type Config struct {
	Profile     string `yaml:"profile"`
	Seed        uint64 `yaml:"seed"`
	Out         string `yaml:"out,omitempty"`
	MetricsFile string `yaml:"metrics_file,omitempty"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`

	Dataset      DatasetConfig      `yaml:"dataset"`
	Retrieval    RetrievalConfig    `yaml:"retrieval"`
	Hierarchical HierarchicalConfig `yaml:"hierarchical"`
	Storage      StorageConfig      `yaml:"storage"`
}

// Default returns the built-in configuration.
func Default() *Config {
	gen := dataset.DefaultGenerateConfig()
	return &Config{
		Profile:   harness.Quick.String(),
		LogLevel:  "info",
		LogFormat: "text",
		Dataset: DatasetConfig{
			Count:       gen.Count,
			Dimension:   gen.Dimension,
			Seed:        gen.Seed,
			BatchSize:   dataset.DefaultBatchSize,
			Compression: dataset.CompressionNone.String(),
		},
		Retrieval: RetrievalConfig{
			K:               10,
			CandidateFactor: 10,
		},
		Hierarchical: HierarchicalConfig{
			Fanout: 16,
			Bounds: vsa.DefaultQueryBounds(),
		},
	}
}

// Load reads path over Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return cfg, nil
}

// Save marshals c to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	var errs []error
	if _, err := harness.ParseProfile(c.Profile); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if _, err := dataset.ParseCompression(c.Dataset.Compression); err != nil {
		errs = append(errs, err)
	}
	if err := c.GenerateConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Retrieval.K < 1 {
		errs = append(errs, fmt.Errorf("retrieval.k must be positive, got %d", c.Retrieval.K))
	}
	if c.Retrieval.TargetQPS < 0 {
		errs = append(errs, fmt.Errorf("retrieval.target_qps must not be negative"))
	}
	if c.Hierarchical.Fanout < 2 {
		errs = append(errs, fmt.Errorf("hierarchical.fanout must be at least 2, got %d", c.Hierarchical.Fanout))
	}
	if c.Hierarchical.Bounds.K < 1 {
		errs = append(errs, fmt.Errorf("hierarchical.bounds.k must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// HarnessConfig returns the measurement settings.
func (c *Config) HarnessConfig() (harness.Config, error) {
	p, err := harness.ParseProfile(c.Profile)
	if err != nil {
		return harness.Config{}, err
	}
	return harness.Config{Profile: p, Seed: c.Seed}, nil
}

// GenerateConfig returns the dataset generation settings with the sparsity
// default applied.
func (c *Config) GenerateConfig() dataset.GenerateConfig {
	sparsity := c.Dataset.Sparsity
	if sparsity == 0 {
		sparsity = c.Dataset.Dimension / 100
	}
	return dataset.GenerateConfig{
		Count:     c.Dataset.Count,
		Dimension: c.Dataset.Dimension,
		Seed:      c.Dataset.Seed,
		Sparsity:  sparsity,
	}
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
