package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/nconklindev/sheetseek/internal/loader"

	"gopkg.in/yaml.v3"
)

// Config holds the sheetseek configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Loader  LoaderConfig  `yaml:"loader"`
	UI      UIConfig      `yaml:"ui"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: info)
	File  string `yaml:"file"`  // empty: stderr for commands, disabled for the TUI
}

// LoaderConfig holds workbook loading settings.
type LoaderConfig struct {
	CSVSheetName      string   `yaml:"csv_sheet_name"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// UIConfig holds interactive view settings.
type UIConfig struct {
	StartDir       string `yaml:"start_dir"`
	TableHeight    int    `yaml:"table_height"`
	MaxColumnWidth int    `yaml:"max_column_width"`
}

// Default returns a configuration with every default applied.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// Load reads configuration from a YAML file. An empty path yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Loader.CSVSheetName == "" {
		c.Loader.CSVSheetName = loader.DefaultCSVSheetName
	}
	if len(c.Loader.AllowedExtensions) == 0 {
		c.Loader.AllowedExtensions = slices.Clone(loader.SupportedExtensions)
	}
	if c.UI.StartDir == "" {
		if wd, err := os.Getwd(); err == nil {
			c.UI.StartDir = wd
		}
	}
	if c.UI.TableHeight <= 0 {
		c.UI.TableHeight = 12
	}
	if c.UI.MaxColumnWidth <= 0 {
		c.UI.MaxColumnWidth = 24
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	for _, ext := range c.Loader.AllowedExtensions {
		if !slices.Contains(loader.SupportedExtensions, loader.NormalizeExt(ext)) {
			return fmt.Errorf("loader.allowed_extensions: %q is not one of %s",
				ext, strings.Join(loader.SupportedExtensions, ", "))
		}
	}
	if c.UI.MaxColumnWidth < 4 {
		return fmt.Errorf("ui.max_column_width must be at least 4, got %d", c.UI.MaxColumnWidth)
	}
	return nil
}

// FileTypes returns the allowed extensions in ".ext" form.
func (c *Config) FileTypes() []string {
	types := make([]string, 0, len(c.Loader.AllowedExtensions))
	for _, ext := range c.Loader.AllowedExtensions {
		types = append(types, "."+loader.NormalizeExt(ext))
	}
	return types
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
