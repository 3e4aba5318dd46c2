package config

import (
	"fmt"

	"github.com/cognicore/hashvec/pkg/hashvec/analysis"
	"github.com/cognicore/hashvec/pkg/hashvec/source"
	"github.com/cognicore/hashvec/pkg/hashvec/vectorizer"
)

// Loader loads configuration files and constructs components
type Loader struct {
	ConfigPath   string
	StoplistPath string // overrides analyzer.stoplist from the config file
}

// Components holds the constructed components
type Components struct {
	Config     *Config
	Analyzer   *analysis.SimpleAnalyzer
	Reader     *source.FileReader
	Vectorizer *vectorizer.HashingVectorizer
}

// Load reads the configuration and returns initialized components
func (l *Loader) Load() (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		loaded, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	stopwords := append([]string(nil), cfg.Analyzer.Stopwords...)
	stoplistPath := cfg.Analyzer.Stoplist
	if l.StoplistPath != "" {
		stoplistPath = l.StoplistPath
	}
	if stoplistPath != "" {
		stoplist, err := LoadStoplist(stoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		stopwords = append(stopwords, stoplist.Terms...)
	}

	an, err := analysis.NewSimpleAnalyzer(cfg.Analyzer.Charset, stopwords)
	if err != nil {
		return nil, fmt.Errorf("build analyzer: %w", err)
	}

	reader, err := source.NewFileReader(cfg.Analyzer.Charset)
	if err != nil {
		return nil, fmt.Errorf("build reader: %w", err)
	}

	vec, err := vectorizer.New(vectorizer.Options{
		Dim:             cfg.Vectorizer.Dim,
		Probes:          cfg.Vectorizer.Probes,
		Analyzer:        an,
		UseIDF:          cfg.UseIDF(),
		ReadConcurrency: cfg.Vectorizer.ReadConcurrency,
	})
	if err != nil {
		return nil, fmt.Errorf("build vectorizer: %w", err)
	}

	return &Components{
		Config:     cfg,
		Analyzer:   an,
		Reader:     reader,
		Vectorizer: vec,
	}, nil
}
