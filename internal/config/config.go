// Package config loads csvfilt defaults from an optional YAML file.
//
// Values are resolved in order of precedence: command-line flags, then the
// config file, then the built-in defaults returned by Defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// FileName is looked up in the home directory when no --config is given.
const FileName = ".csvfilt.yaml"

// Config holds the tunable defaults of the command line tool.
type Config struct {
	Format    string `yaml:"format"`
	Delimiter string `yaml:"delimiter"`
	Workers   int    `yaml:"workers"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	MaxWidth  int    `yaml:"max_width"`
	CSVSafe   bool   `yaml:"csv_safe"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Format:    "csv",
		Delimiter: ",",
		Workers:   runtime.GOMAXPROCS(0),
		LogLevel:  "warn",
		LogFormat: "text",
		MaxWidth:  40,
	}
}

// Decode reads YAML from r on top of the defaults. Unknown keys are an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Defaults()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns $HOME/.csvfilt.yaml, or "" when there is no home
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, FileName)
}

// Resolve loads path when set. Otherwise it loads the default file if one
// exists and falls back to Defaults.
func Resolve(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	def := DefaultPath()
	if def == "" {
		return Defaults(), nil
	}
	if _, err := os.Stat(def); errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	return Load(def)
}

// Validate checks values that cannot be caught by YAML decoding.
func (c Config) Validate() error {
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.MaxWidth < 0 {
		return fmt.Errorf("max_width must not be negative, got %d", c.MaxWidth)
	}
	return nil
}

// ParseDelimiter accepts a single character, or the escapes "\t" and "tab".
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case `\t`, "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	if r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}
