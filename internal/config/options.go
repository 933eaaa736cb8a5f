package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigError marks an invalid run configuration (persona, weights,
// top_k). It is fatal: the pipeline aborts before any scoring.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration: " + e.Reason
}

// Errorf builds a ConfigError from a format string.
func Errorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// Options are the per-run analysis settings. Zero values mean "use the
// default"; Normalize fills them in before validation.
type Options struct {
	TopK              int                `yaml:"top_k" json:"top_k,omitempty"`
	Weights           map[string]float64 `yaml:"weights" json:"weights,omitempty"`
	IdealLength       int                `yaml:"ideal_length" json:"ideal_length,omitempty"`
	PerDocumentCap    int                `yaml:"per_document_cap" json:"per_document_cap,omitempty"`
	TimeBudgetSeconds float64            `yaml:"time_budget_seconds" json:"time_budget_seconds,omitempty"`
	MaxRefinedLen     int                `yaml:"max_refined_len" json:"max_refined_len,omitempty"`
}

// DefaultOptions returns the documented defaults. The per-document
// fairness cap stays disabled unless asked for.
func DefaultOptions() Options {
	return Options{
		TopK:              50,
		IdealLength:       500,
		PerDocumentCap:    0,
		TimeBudgetSeconds: 60,
		MaxRefinedLen:     500,
	}
}

// Normalize fills zero-valued fields from the defaults.
func (o *Options) Normalize() {
	def := DefaultOptions()
	if o.TopK == 0 {
		o.TopK = def.TopK
	}
	if o.IdealLength == 0 {
		o.IdealLength = def.IdealLength
	}
	if o.TimeBudgetSeconds == 0 {
		o.TimeBudgetSeconds = def.TimeBudgetSeconds
	}
	if o.MaxRefinedLen == 0 {
		o.MaxRefinedLen = def.MaxRefinedLen
	}
}

// Validate rejects option values the pipeline cannot run with. Weight
// table contents are validated separately by the scorer, which owns the
// dimension names.
func (o Options) Validate() error {
	if o.TopK < 0 {
		return Errorf("top_k must be positive, got %d", o.TopK)
	}
	if o.IdealLength < 0 {
		return Errorf("ideal_length must be positive, got %d", o.IdealLength)
	}
	if o.PerDocumentCap < 0 {
		return Errorf("per_document_cap must not be negative, got %d", o.PerDocumentCap)
	}
	if o.TimeBudgetSeconds < 0 {
		return Errorf("time_budget_seconds must be positive, got %g", o.TimeBudgetSeconds)
	}
	if o.MaxRefinedLen < 0 {
		return Errorf("max_refined_len must be positive, got %d", o.MaxRefinedLen)
	}
	return nil
}

// LoadOptionsFile reads analysis option defaults from a YAML file and
// merges them over the built-in defaults.
func LoadOptionsFile(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read options file: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse options file: %w", err)
	}
	opts.Normalize()
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
