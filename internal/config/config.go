package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/dshills/textcore/internal/config/loader"
	"github.com/dshills/textcore/internal/engine/document"
	"github.com/dshills/textcore/internal/engine/format"
	"github.com/dshills/textcore/internal/engine/gapbuffer"
	"github.com/dshills/textcore/internal/engine/position"
	"github.com/dshills/textcore/internal/logging"
	"gopkg.in/yaml.v3"
)

// LuaStrategy is the strategy name that runs a Lua script.
const LuaStrategy = "lua"

// Config is the complete engine configuration.
type Config struct {
	Store      StoreConfig                `yaml:"store"`
	Positions  PositionsConfig            `yaml:"positions"`
	Partitions []PartitionRule            `yaml:"partitions"`
	Formatting map[string]FormatterConfig `yaml:"formatting"`
	Logging    LoggingConfig              `yaml:"logging"`
}

// StoreConfig bounds the gap of the text store.
type StoreConfig struct {
	LowWatermark  int `yaml:"low_watermark"`
	HighWatermark int `yaml:"high_watermark"`
}

// PositionsConfig selects how the default position category treats
// positions whose whole range is removed.
type PositionsConfig struct {
	OnFullOverlap string `yaml:"on_full_overlap"`
}

// Policy returns the parsed full-overlap policy.
// Call Validate first; an unknown value yields position.Delete.
func (p PositionsConfig) Policy() position.Policy {
	policy, _ := position.ParsePolicy(p.OnFullOverlap)
	return policy
}

// PartitionRule describes one delimited content type.
type PartitionRule struct {
	ContentType string `yaml:"content_type"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	SingleLine  bool   `yaml:"single_line"`
	Escape      string `yaml:"escape"`
}

// FormatterConfig selects the strategies run on one content type.
// Strategies run in order, each on the previous one's output.
type FormatterConfig struct {
	Strategies []string `yaml:"strategies"`
	Width      int      `yaml:"width"`  // wrap
	Prefix     string   `yaml:"prefix"` // indent
	Script     string   `yaml:"script"` // lua
}

// LoggingConfig configures the log backend.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a valid configuration with no partition rules and
// no formatting.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			LowWatermark:  gapbuffer.DefaultLowWatermark,
			HighWatermark: gapbuffer.DefaultHighWatermark,
		},
		Positions:  PositionsConfig{OnFullOverlap: position.Delete.String()},
		Formatting: map[string]FormatterConfig{},
		Logging:    LoggingConfig{Level: "info"},
	}
}

// Validate checks every section. The returned error wraps
// ErrInvalidConfiguration and names the offending setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Store.LowWatermark < 0 || c.Store.LowWatermark >= c.Store.HighWatermark {
		errs = append(errs, invalid("store",
			"need 0 <= low_watermark < high_watermark, got %d and %d",
			c.Store.LowWatermark, c.Store.HighWatermark))
	}

	if _, ok := position.ParsePolicy(c.Positions.OnFullOverlap); !ok {
		errs = append(errs, invalid("positions.on_full_overlap",
			"unknown policy %q (want delete or clamp)", c.Positions.OnFullOverlap))
	}

	types := map[string]bool{document.DefaultContentType: true}
	for i, r := range c.Partitions {
		path := fmt.Sprintf("partitions[%d]", i)
		switch {
		case r.ContentType == "":
			errs = append(errs, invalid(path+".content_type", "must not be empty"))
		case r.ContentType == document.DefaultContentType:
			errs = append(errs, invalid(path+".content_type", "%q is reserved", r.ContentType))
		}
		if r.Start == "" {
			errs = append(errs, invalid(path+".start", "must not be empty"))
		}
		if len(r.Escape) > 1 {
			errs = append(errs, invalid(path+".escape", "must be a single byte, got %q", r.Escape))
		}
		types[r.ContentType] = true
	}

	for _, contentType := range c.FormattedTypes() {
		fc := c.Formatting[contentType]
		path := "formatting." + contentType
		if !types[contentType] {
			errs = append(errs, invalid(path, "no partition rule produces content type %q", contentType))
		}
		if len(fc.Strategies) == 0 {
			errs = append(errs, invalid(path+".strategies", "must name at least one strategy"))
		}
		for _, name := range fc.Strategies {
			switch {
			case name == LuaStrategy:
				if fc.Script == "" {
					errs = append(errs, invalid(path+".script", "required by the lua strategy"))
				}
			case !slices.Contains(format.BuiltinNames(), name):
				errs = append(errs, invalid(path+".strategies", "unknown strategy %q", name))
			}
		}
		if fc.Width < 0 {
			errs = append(errs, invalid(path+".width", "must not be negative, got %d", fc.Width))
		}
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, invalid("logging.level", "unknown level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// FormattedTypes returns the content types with a formatter, sorted.
func (c *Config) FormattedTypes() []string {
	out := make([]string, 0, len(c.Formatting))
	for t := range c.Formatting {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// LogLevel returns the configured logging level.
func (c *Config) LogLevel() logging.LogLevel {
	return logging.ParseLogLevel(c.Logging.Level)
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs        loader.FileSystem
	envPrefix string
	useEnv    bool
}

// WithFS reads configuration files from fsys instead of the OS.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnvPrefix changes the prefix of environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// WithoutEnv ignores environment overrides.
func WithoutEnv() Option {
	return func(o *loadOptions) {
		o.useEnv = false
	}
}

// Load builds a configuration from the defaults, the file at path (if
// path is not empty) and the environment, then validates it.
// Relative lua script paths are resolved against the file's directory.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		useEnv:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var layers []map[string]any

	if path != "" {
		if _, err := o.fs.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, err
		}
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		tree, err := l.Load()
		if err != nil {
			return nil, err
		}
		layers = append(layers, tree)
	}

	if o.useEnv {
		tree, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, err
		}
		layers = append(layers, tree)
	}

	cfg, err := FromMap(mergeLayers(layers...))
	if err != nil {
		return nil, err
	}

	if path != "" {
		dir := filepath.Dir(path)
		for contentType, fc := range cfg.Formatting {
			if fc.Script != "" && !filepath.IsAbs(fc.Script) {
				fc.Script = filepath.Join(dir, fc.Script)
				cfg.Formatting[contentType] = fc
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromMap decodes a merged configuration tree over the defaults.
// It does not validate.
func FromMap(tree map[string]any) (*Config, error) {
	cfg := Default()
	if len(tree) == 0 {
		return cfg, nil
	}
	data, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encoding configuration: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return cfg, nil
}

func mergeLayers(layers ...map[string]any) map[string]any {
	merged := make(map[string]any)
	for _, l := range layers {
		merged = loader.DeepMerge(merged, loader.Clone(l))
	}
	return merged
}
