package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/cuebasic/internal/errors"
	"github.com/mcncl/cuebasic/internal/formatter"
	"github.com/mcncl/cuebasic/internal/log"
)

// Config represents the complete configuration for cuebasic
type Config struct {
	Merge  MergeConfig  `yaml:"merge"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// MergeConfig selects the conflict policy
type MergeConfig struct {
	LastWriteWins bool `yaml:"last_write_wins"`
}

// OutputConfig controls how the merged value is rendered
type OutputConfig struct {
	Format    string `yaml:"format"`
	Indent    int    `yaml:"indent"`
	EnvPrefix string `yaml:"env_prefix"`
}

// LogConfig controls the diagnostic stream
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Pretty bool   `yaml:"pretty"`
}

// ConfigNames are the file names FindConfigFile looks for, in order.
var ConfigNames = []string{".cuebasic.yml", ".cuebasic.yaml", "cuebasic.yml", "cuebasic.yaml"}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Merge: MergeConfig{
			LastWriteWins: false,
		},
		Output: OutputConfig{
			Format: string(formatter.FormatText),
			Indent: formatter.DefaultIndent,
		},
		Log: LogConfig{
			Level:  log.DefaultLevel.String(),
			Format: log.DefaultFormat.String(),
			Pretty: log.DefaultPretty,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file '%s'", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values no component would accept
func (c *Config) Validate() error {
	if _, err := formatter.ParseFormat(c.Output.Format); err != nil {
		return errors.NewConfigError("invalid output.format"+suggest(c.Output.Format, formatter.Formats()), err)
	}
	if c.Output.Indent < 0 {
		return errors.NewConfigError(fmt.Sprintf("invalid output.indent %d: must not be negative", c.Output.Indent), nil)
	}
	if _, ok := log.LookupLevel(c.Log.Level); c.Log.Level != "" && !ok {
		return errors.NewConfigError(
			fmt.Sprintf("invalid log.level %q: must be one of %s%s",
				c.Log.Level, strings.Join(log.Levels(), ", "), suggest(c.Log.Level, log.Levels())),
			nil,
		)
	}
	if c.Log.Format != "" && !slices.Contains(log.Formats(), strings.ToLower(c.Log.Format)) {
		return errors.NewConfigError(
			fmt.Sprintf("invalid log.format %q: must be one of %s%s",
				c.Log.Format, strings.Join(log.Formats(), ", "), suggest(c.Log.Format, log.Formats())),
			nil,
		)
	}
	return nil
}

// suggest returns a " (did you mean ...?)" hint naming the closest choice,
// or "" when nothing matches
func suggest(input string, choices []string) string {
	matches := fuzzy.Find(strings.ToLower(strings.TrimSpace(input)), choices)
	if len(matches) == 0 {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", matches[0].Str)
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return FindConfigFileFrom(currentDir)
}

// FindConfigFileFrom searches dir and its parents for the first of
// ConfigNames, returning "" if none exists
func FindConfigFileFrom(dir string) string {
	currentDir := dir

	// Search up the directory tree
	for {
		for _, name := range ConfigNames {
			configPath := filepath.Join(currentDir, name)
			if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Overrides holds values given on the command line. Zero values mean the
// flag was not given.
type Overrides struct {
	LastWriteWins bool
	Format        string
	Indent        *int
	EnvPrefix     string
	LogLevel      string
	LogFormat     string
}

// Apply copies every set override onto c
func (c *Config) Apply(o Overrides) {
	// --last-write-wins can only relax the policy
	if o.LastWriteWins {
		c.Merge.LastWriteWins = true
	}
	if o.Format != "" {
		c.Output.Format = o.Format
	}
	if o.Indent != nil {
		c.Output.Indent = *o.Indent
	}
	if o.EnvPrefix != "" {
		c.Output.EnvPrefix = o.EnvPrefix
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Log.Format = o.LogFormat
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence. An empty
// configPath means defaults only.
func LoadConfigWithCLI(configPath string, cli Overrides) (*Config, error) {
	// Start with defaults
	cfg := NewConfig()

	// Load config file if provided
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	cfg.Apply(cli)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogOptions translates the log section into logger options
func (c *Config) LogOptions() []log.Option {
	return []log.Option{
		log.WithLevel(log.ParseLevel(c.Log.Level)),
		log.WithFormat(log.ParseFormat(c.Log.Format)),
		log.WithPretty(c.Log.Pretty),
	}
}

// Formatter builds the formatter described by the output section
func (c *Config) Formatter() (*formatter.Formatter, error) {
	format, err := formatter.ParseFormat(c.Output.Format)
	if err != nil {
		return nil, err
	}
	return formatter.NewFormatter(format,
		formatter.WithIndent(c.Output.Indent),
		formatter.WithEnvPrefix(c.Output.EnvPrefix),
	), nil
}
