// Package config loads cavy's configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/zephyrtronium/cavy/internal/source"
)

// EnvVar is the environment variable naming a configuration file.
const EnvVar = "CAVY_CONFIG"

// DefaultFile is the configuration file used when neither a path nor EnvVar
// is given. It is not an error for it to be missing.
const DefaultFile = ".cavy.yaml"

// Config is the driver configuration.
type Config struct {
	// Encoding is the character encoding of program files.
	Encoding string `yaml:"encoding"`
	// Trace enables interpreter tracing.
	Trace bool `yaml:"trace"`

	Log  Log  `yaml:"log"`
	REPL REPL `yaml:"repl"`
}

// Log configures trace logging.
type Log struct {
	// Format is "text" or "json".
	Format string `yaml:"format"`
	// Level is a log/slog level name.
	Level string `yaml:"level"`
	// TimeFormat is a strftime-style layout for record times. An empty
	// layout omits times.
	TimeFormat string `yaml:"time_format"`
}

// REPL configures the interactive prompt.
type REPL struct {
	Prompt       string `yaml:"prompt"`
	Continuation string `yaml:"continuation"`
	// History is a file to load and save line history. Empty disables it.
	History string `yaml:"history"`
}

// Defaults returns the configuration used when no file sets a value.
func Defaults() *Config {
	return &Config{
		Encoding: "utf8",
		Log: Log{
			Format:     "text",
			Level:      "debug",
			TimeFormat: "%H:%M:%S",
		},
		REPL: REPL{
			Prompt:       "cavy> ",
			Continuation: "....> ",
		},
	}
}

// Load reads the configuration file. If path is empty, the file named by
// EnvVar is used, and failing that DefaultFile if it exists. With no file at
// all, the result is Defaults. ${VAR} and ${VAR:-default} in the file are
// replaced using getenv.
func Load(path string, getenv func(string) string) (*Config, error) {
	path, err := resolve(path, getenv)
	if err != nil {
		return nil, err
	}
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	data = interpolateEnv(data, getenv)
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// resolve finds the configuration file to use, or "" if there is none.
func resolve(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}
	if p := getenv(EnvVar); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s file not found: %s", EnvVar, p)
		}
		return p, nil
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile, nil
	}
	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}.
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		value := getenv(string(parts[1]))
		if value == "" && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}

// Validate checks that every field has a usable value. All problems are
// reported together.
func (cfg *Config) Validate() error {
	var errs []string
	if _, err := source.Lookup(cfg.Encoding); err != nil {
		errs = append(errs, err.Error())
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format: unknown format %q (must be text or json)", cfg.Log.Format))
	}
	if _, err := cfg.Log.SlogLevel(); err != nil {
		errs = append(errs, fmt.Sprintf("log.level: %v", err))
	}
	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

// SlogLevel parses the configured level.
func (l Log) SlogLevel() (slog.Level, error) {
	var lv slog.Level
	err := lv.UnmarshalText([]byte(l.Level))
	return lv, err
}
