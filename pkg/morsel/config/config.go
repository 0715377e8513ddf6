// Package config loads pipeline settings and classification tables from
// YAML. Anything not set in the file keeps its compiled-in default, so
// an absent file means default behavior.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lenddata/morsel/pkg/morsel/classify"
	"github.com/lenddata/morsel/pkg/morsel/dedupe"
	"github.com/lenddata/morsel/pkg/morsel/internalerr"
	"github.com/lenddata/morsel/pkg/morsel/pipeline"
	"github.com/lenddata/morsel/pkg/morsel/quality"
)

// Category is one configured category with its keyword list. List order
// in the file is the tie-break priority.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Config is the full configuration surface.
type Config struct {
	Mode            string  `yaml:"mode"`             // hash | semantic
	Sort            string  `yaml:"sort"`             // quality | length
	QualityStrategy string  `yaml:"quality_strategy"` // full | fast
	DedupThreshold  float64 `yaml:"dedup_threshold"`
	QualityMin      float64 `yaml:"quality_min"`
	Window          int     `yaml:"window"`
	AssignContext   bool    `yaml:"assign_context"`
	Stemming        bool    `yaml:"stemming"`

	// Empty slices/maps mean "use the built-in domain defaults".
	Categories    []Category        `yaml:"categories"`
	Abbreviations map[string]string `yaml:"abbreviations"`
	Stopwords     []string          `yaml:"stopwords"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Mode:            "semantic",
		Sort:            "quality",
		QualityStrategy: "full",
		DedupThreshold:  dedupe.DefaultThreshold,
		QualityMin:      pipeline.DefaultQualityThreshold,
		Window:          dedupe.DefaultWindow,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first configuration error, before any
// processing starts.
func (c Config) Validate() error {
	if _, err := dedupe.ParseStrategy(c.Mode); err != nil {
		return err
	}
	if _, err := pipeline.ParseSortMode(c.Sort); err != nil {
		return err
	}
	if _, err := quality.ParseStrategy(c.QualityStrategy); err != nil {
		return err
	}
	if c.DedupThreshold < 0 || c.DedupThreshold > 1 {
		return fmt.Errorf("%w: dedup_threshold %v outside [0,1]", internalerr.ErrInvalidConfig, c.DedupThreshold)
	}
	if c.QualityMin < 0 || c.QualityMin > 1 {
		return fmt.Errorf("%w: quality_min %v outside [0,1]", internalerr.ErrInvalidConfig, c.QualityMin)
	}
	if c.Window < 0 {
		return fmt.Errorf("%w: window %d is negative", internalerr.ErrInvalidConfig, c.Window)
	}
	return nil
}

// Pipeline translates the configuration into a pipeline.Config.
func (c Config) Pipeline() (pipeline.Config, error) {
	if err := c.Validate(); err != nil {
		return pipeline.Config{}, err
	}

	mode, _ := dedupe.ParseStrategy(c.Mode)
	sortMode, _ := pipeline.ParseSortMode(c.Sort)
	qstrategy, _ := quality.ParseStrategy(c.QualityStrategy)

	pcfg := pipeline.Config{
		Mode:             mode,
		Sort:             sortMode,
		QualityStrategy:  qstrategy,
		DedupThreshold:   c.DedupThreshold,
		QualityThreshold: c.QualityMin,
		Window:           c.Window,
		AssignContext:    c.AssignContext,
		Stemming:         c.Stemming,
		Abbreviations:    c.Abbreviations,
		Stopwords:        c.Stopwords,
	}

	if len(c.Categories) > 0 {
		rules := classify.Ruleset{Default: "general"}
		for _, cat := range c.Categories {
			rules.Categories = append(rules.Categories, classify.Category{
				Name:     cat.Name,
				Keywords: cat.Keywords,
			})
		}
		pcfg.Rules = &rules
	}

	return pcfg, nil
}
