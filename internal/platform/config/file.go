// internal/platform/config/file.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileOverrides is the subset of Config that a YAML config file may set. It
// sits between defaults and environment variables in the precedence chain:
// defaults -> config file -> ENV -> CLI flags.
type fileOverrides struct {
	Topic      string   `yaml:"topic"`
	MaxWorkers int      `yaml:"max_workers"`
	Language   string   `yaml:"language"`
	FeedURLs   []string `yaml:"feed_urls"`
	Domain     string   `yaml:"domain"`
	Market     string   `yaml:"market"`
	Vertical   string   `yaml:"vertical"`

	Fusion struct {
		RRFConstant int `yaml:"rrf_k"`
	} `yaml:"fusion"`

	Dedup struct {
		Threshold    float64 `yaml:"threshold"`
		Permutations int     `yaml:"permutations"`
	} `yaml:"dedup"`
}

// LoadFromFile reads a YAML config file and applies any set fields onto cfg.
// A missing path is not an error: config files are optional.
func LoadFromFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var overrides fileOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return err
	}

	if overrides.Topic != "" {
		cfg.Topic = overrides.Topic
	}
	if overrides.MaxWorkers > 0 {
		cfg.MaxWorkers = overrides.MaxWorkers
	}
	if overrides.Language != "" {
		cfg.Language = overrides.Language
	}
	if len(overrides.FeedURLs) > 0 {
		cfg.FeedURLs = overrides.FeedURLs
	}
	if overrides.Domain != "" {
		cfg.Domain = overrides.Domain
	}
	if overrides.Market != "" {
		cfg.Market = overrides.Market
	}
	if overrides.Vertical != "" {
		cfg.Vertical = overrides.Vertical
	}
	if overrides.Fusion.RRFConstant > 0 {
		cfg.Fusion.RRFConstant = overrides.Fusion.RRFConstant
	}
	if overrides.Dedup.Threshold > 0 {
		cfg.Dedup.Threshold = overrides.Dedup.Threshold
	}
	if overrides.Dedup.Permutations > 0 {
		cfg.Dedup.Permutations = overrides.Dedup.Permutations
	}

	return nil
}
