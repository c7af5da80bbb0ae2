package foldermap

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hayeah/foldermap/internal/treeindex"
)

// Config is read from an optional TOML file.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Tree    TreeConfig    `toml:"tree"`
	Metrics MetricsConfig `toml:"metrics"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type TreeConfig struct {
	// Inclusion is "inherit" or "fail-open".
	Inclusion   string   `toml:"inclusion"`
	Gitignore   bool     `toml:"gitignore"`
	Exclude     []string `toml:"exclude"`
	// ExcludeFrom names files holding one exclude pattern per line.
	ExcludeFrom []string `toml:"exclude_from"`
}

type MetricsConfig struct {
	// TokenEstimator is "simple" or "tiktoken".
	TokenEstimator string `toml:"token_estimator"`
}

// DefaultConfig is used when no file is given.
func DefaultConfig() Config {
	return Config{
		Log:     LogConfig{Level: "info"},
		Tree:    TreeConfig{Inclusion: "inherit"},
		Metrics: MetricsConfig{TokenEstimator: "simple"},
	}
}

// LoadConfig decodes the file at path over the defaults. An empty path
// returns the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return cfg, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if _, err := cfg.InclusionMode(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// InclusionMode parses Tree.Inclusion.
func (c Config) InclusionMode() (treeindex.InclusionMode, error) {
	mode, ok := treeindex.ParseInclusionMode(c.Tree.Inclusion)
	if !ok {
		return mode, fmt.Errorf("unknown inclusion mode: %q", c.Tree.Inclusion)
	}
	return mode, nil
}
