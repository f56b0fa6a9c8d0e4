// Package config loads and validates the argos configuration.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/shanks-ir/argos/internal/errors"
)

// Environment variable overrides applied after file loading.
const (
	EnvRunID   = "ARGOS_RUN_ID"
	EnvMaxDocs = "ARGOS_MAX_DOCS"
)

// Config is the full argos configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Index   IndexConfig   `yaml:"index" json:"index"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	WordNet WordNetConfig `yaml:"wordnet" json:"wordnet"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// IndexConfig configures index building and loading.
type IndexConfig struct {
	// Dir is the index directory (snapshot + document store).
	Dir string `yaml:"dir" json:"dir"`
	// CorpusDir is the directory holding the corpus .json files.
	CorpusDir string `yaml:"corpus_dir" json:"corpus_dir"`
	// Workers bounds concurrent corpus file parsing. 0 means NumCPU.
	Workers int `yaml:"workers" json:"workers"`
}

// SearchConfig configures the search phase.
type SearchConfig struct {
	TopicsFile string `yaml:"topics_file" json:"topics_file"`
	RunDir     string `yaml:"run_dir" json:"run_dir"`
	RunID      string `yaml:"run_id" json:"run_id"`
	Strategy   string `yaml:"strategy" json:"strategy"`
	// MaxDocs is the maximum ranking length per topic (K).
	MaxDocs int `yaml:"max_docs" json:"max_docs"`
	// ExpectedTopics warns when the topic file has a different count.
	ExpectedTopics int `yaml:"expected_topics" json:"expected_topics"`
}

// WordNetConfig locates the synonym database.
type WordNetConfig struct {
	// Dir is the WordNet dict directory. Empty disables expansion,
	// which only baseline-profile strategies accept.
	Dir string `yaml:"dir" json:"dir"`
}

// DefaultConfig returns the defaults used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Index:   IndexConfig{Dir: "experiment/index"},
		Search: SearchConfig{
			RunDir:         "experiment/runs",
			RunID:          "argos-run",
			Strategy:       "5",
			MaxDocs:        1000,
			ExpectedTopics: 50,
		},
	}
}

// Load reads the YAML configuration at path, applies environment
// overrides, and validates the result. An empty path yields defaults
// (plus overrides).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.ConfigError(fmt.Sprintf("cannot read config file %s", path), err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.ConfigError(fmt.Sprintf("cannot parse config file %s", path), err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvRunID); v != "" {
		cfg.Search.RunID = v
	}
	if v := os.Getenv(EnvMaxDocs); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxDocs = n
		}
	}
}

// Validate checks the invariants the pipeline depends on.
func (c *Config) Validate() error {
	if c.Search.MaxDocs <= 0 {
		return errors.ConfigError("search.max_docs must be positive", nil)
	}
	if c.Search.RunID == "" {
		return errors.ConfigError("search.run_id cannot be empty", nil)
	}
	if c.Index.Dir == "" {
		return errors.ConfigError("index.dir cannot be empty", nil)
	}
	if c.Index.Workers < 0 {
		return errors.ConfigError("index.workers cannot be negative", nil)
	}
	return nil
}
