package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for cmend.
type Config struct {
	// Which detection passes run
	Checks ChecksConfig `koanf:"checks"`

	// Lookahead windows for the bounded body scans
	Limits LimitsConfig `koanf:"limits"`

	// Transformation behavior
	Transform TransformConfig `koanf:"transform"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// ChecksConfig controls which detection passes run.
type ChecksConfig struct {
	Brackets      bool `koanf:"brackets"`
	Control       bool `koanf:"control"`
	Semicolons    bool `koanf:"semicolons"`
	Functions     bool `koanf:"functions"`
	Returns       bool `koanf:"returns"`
	Conditions    bool `koanf:"conditions"`
	Variables     bool `koanf:"variables"`
	Unreachable   bool `koanf:"unreachable"`
	Expressions   bool `koanf:"expressions"`
	FormatStrings bool `koanf:"format_strings"`
	ArrayBounds   bool `koanf:"array_bounds"`
	InfiniteLoops bool `koanf:"infinite_loops"`
}

// LimitsConfig bounds the window-based scans.
type LimitsConfig struct {
	LoopLookahead  int `koanf:"loop_lookahead"`
	ArrayLookahead int `koanf:"array_lookahead"`
	BodySearch     int `koanf:"body_search"`
}

// TransformConfig controls the rewrite passes.
type TransformConfig struct {
	Rename      bool `koanf:"rename"`
	IndentWidth int  `koanf:"indent_width"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns   []string `koanf:"patterns"`
	Extensions []string `koanf:"extensions"`
	Dirs       []string `koanf:"dirs"`
}

// CacheConfig controls analysis-result caching.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	TTL     int    `koanf:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Checks: ChecksConfig{
			Brackets:      true,
			Control:       true,
			Semicolons:    true,
			Functions:     true,
			Returns:       true,
			Conditions:    true,
			Variables:     true,
			Unreachable:   true,
			Expressions:   true,
			FormatStrings: true,
			ArrayBounds:   true,
			InfiniteLoops: true,
		},
		Limits: LimitsConfig{
			LoopLookahead:  30,
			ArrayLookahead: 20,
			BodySearch:     2,
		},
		Transform: TransformConfig{
			Rename:      true,
			IndentWidth: 4,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.bak",
				"*.orig",
			},
			Extensions: []string{
				".o",
				".out",
			},
			Dirs: []string{
				".git",
				".cmend",
				"build",
			},
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".cmend/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := validateCheckNames(k); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

var knownChecks = map[string]bool{
	"brackets":       true,
	"control":        true,
	"semicolons":     true,
	"functions":      true,
	"returns":        true,
	"conditions":     true,
	"variables":      true,
	"unreachable":    true,
	"expressions":    true,
	"format_strings": true,
	"array_bounds":   true,
	"infinite_loops": true,
}

// validateCheckNames rejects config files that enable passes that do not
// exist, which is almost always a typo.
func validateCheckNames(k *koanf.Koanf) error {
	for _, key := range k.Keys() {
		name, ok := strings.CutPrefix(key, "checks.")
		if !ok {
			continue
		}
		if !knownChecks[name] {
			return fmt.Errorf("unknown check %q in config", name)
		}
	}
	return nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"cmend.toml",
		"cmend.yaml",
		"cmend.yml",
		"cmend.json",
		".cmend.toml",
		".cmend.yaml",
		".cmend.yml",
		".cmend.json",
	}

	searchDirs := []string{".", ".cmend"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// ShouldExclude checks if a path should be skipped.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	ext := filepath.Ext(path)
	for _, excludeExt := range c.Exclude.Extensions {
		if ext == excludeExt {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
