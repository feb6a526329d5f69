package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/CTAG07/chaingen/pkg/templating"
	"github.com/natefinch/atomic"
)

// Symbol modes accepted by --mode.
const (
	modeChar = "char"
	modeWord = "word"
)

// Limits on the model order accepted from flags and config.
const (
	minOrder = 1
	maxOrder = 20
)

// GenerateConfig holds the defaults for the generate and dump commands.
type GenerateConfig struct {
	Order  int    `json:"order"`
	Length int    `json:"length"`
	Mode   string `json:"mode"`
	Prune  int    `json:"prune"`
}

// TokenizerConfig customizes word splitting in word mode. Empty fields keep
// the tokenizer's defaults.
type TokenizerConfig struct {
	Separator         string `json:"separator"`
	SplitRegex        string `json:"split_regex"`
	SeparatorExcRegex string `json:"separator_exc_regex"`
}

// Config is the top-level configuration read from config.json.
type Config struct {
	LogLevel     string                     `json:"log_level"`
	DatabasePath string                     `json:"database_path"`
	TemplateDir  string                     `json:"template_dir"`
	Generate     *GenerateConfig            `json:"generate_config"`
	Tokenizer    *TokenizerConfig           `json:"tokenizer_config"`
	Templates    *templating.TemplateConfig `json:"template_config"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	tmpl := templating.DefaultConfig()
	return &Config{
		LogLevel:     "warn",
		DatabasePath: "./chaingen.db",
		TemplateDir:  "./templates",
		Generate: &GenerateConfig{
			Order:  3,
			Length: 500,
			Mode:   modeChar,
		},
		Tokenizer: &TokenizerConfig{},
		Templates: &tmpl,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Defaults still apply.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// Validate checks every value that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if c.Generate == nil {
		c.Generate = DefaultConfig().Generate
	}
	if c.Tokenizer == nil {
		c.Tokenizer = &TokenizerConfig{}
	}
	if c.Templates == nil {
		tmpl := templating.DefaultConfig()
		c.Templates = &tmpl
	}

	if err := validateOrder(c.Generate.Order); err != nil {
		return err
	}
	if c.Generate.Length < 1 {
		return fmt.Errorf("length must be positive, got %d", c.Generate.Length)
	}
	if c.Generate.Mode != modeChar && c.Generate.Mode != modeWord {
		return fmt.Errorf("unknown mode %q, expected %q or %q", c.Generate.Mode, modeChar, modeWord)
	}
	for name, expr := range map[string]string{
		"split_regex":         c.Tokenizer.SplitRegex,
		"separator_exc_regex": c.Tokenizer.SeparatorExcRegex,
	} {
		if expr == "" {
			continue
		}
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

func validateOrder(order int) error {
	if order < minOrder || order > maxOrder {
		return fmt.Errorf("order must be between %d and %d, got %d", minOrder, maxOrder, order)
	}
	return nil
}

// parseLogLevel maps a config string onto a slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger builds the text logger shared by every component of a command.
func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
}
