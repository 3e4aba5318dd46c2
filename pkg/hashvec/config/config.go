package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/hashvec/pkg/hashvec/analysis"
	"github.com/cognicore/hashvec/pkg/hashvec/internalerr"
	"github.com/cognicore/hashvec/pkg/hashvec/vectorizer"
)

// Config is the top-level YAML configuration
type Config struct {
	Vectorizer Vectorizer `yaml:"vectorizer"`
	Analyzer   Analyzer   `yaml:"analyzer"`
	Store      Store      `yaml:"store"`
}

// Vectorizer holds hashing and weighting parameters
type Vectorizer struct {
	Dim             int   `yaml:"dim"`
	Probes          int   `yaml:"probes"`
	UseIDF          *bool `yaml:"use_idf"`
	ReadConcurrency int   `yaml:"read_concurrency"`
}

// Analyzer holds tokenizer settings
type Analyzer struct {
	Charset   string   `yaml:"charset"`
	Stoplist  string   `yaml:"stoplist"`
	Stopwords []string `yaml:"stopwords"`
}

// Store holds snapshot persistence settings
type Store struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file and fills in defaults for absent keys.
// A relative stoplist path is resolved against the config file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()

	if sl := cfg.Analyzer.Stoplist; sl != "" && !filepath.IsAbs(sl) {
		cfg.Analyzer.Stoplist = filepath.Join(filepath.Dir(path), sl)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Vectorizer.Dim == 0 {
		c.Vectorizer.Dim = vectorizer.DefaultDim
	}
	if c.Vectorizer.Probes == 0 {
		c.Vectorizer.Probes = vectorizer.DefaultProbes
	}
	if c.Vectorizer.UseIDF == nil {
		useIDF := true
		c.Vectorizer.UseIDF = &useIDF
	}
	if c.Vectorizer.ReadConcurrency == 0 {
		c.Vectorizer.ReadConcurrency = vectorizer.DefaultReadConcurrency
	}
	if c.Analyzer.Charset == "" {
		c.Analyzer.Charset = analysis.DefaultCharset
	}
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	if c.Vectorizer.Dim < 0 {
		return fmt.Errorf("%w: vectorizer.dim must be positive, got %d", internalerr.ErrInvalidConfig, c.Vectorizer.Dim)
	}
	if c.Vectorizer.Probes < 0 {
		return fmt.Errorf("%w: vectorizer.probes must be positive, got %d", internalerr.ErrInvalidConfig, c.Vectorizer.Probes)
	}
	if c.Vectorizer.ReadConcurrency < 0 {
		return fmt.Errorf("%w: vectorizer.read_concurrency must be positive, got %d", internalerr.ErrInvalidConfig, c.Vectorizer.ReadConcurrency)
	}
	if _, err := analysis.LookupCharset(c.Analyzer.Charset); err != nil {
		return fmt.Errorf("%w: analyzer.charset: %w", internalerr.ErrInvalidConfig, err)
	}
	return nil
}

// UseIDF reports the configured weighting; absent means true
func (c *Config) UseIDF() bool {
	return c.Vectorizer.UseIDF == nil || *c.Vectorizer.UseIDF
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
