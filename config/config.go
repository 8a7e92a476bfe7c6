// Package config holds the run options of the simulator: where the trace
// comes from, which outputs are produced, and how much is logged.
//
// The cache itself is described by the positional command-line arguments and
// is not part of these options.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// DefaultTracePath is the trace that is replayed when no path is given.
const DefaultTracePath = "trace_files/trace_3.txt"

// ErrInvalidOptions is returned when the run options cannot be used.
var ErrInvalidOptions = errors.New("invalid options")

// Environment variables read by LoadFromEnv.
const (
	EnvTrace     = "CACHESIM_TRACE"
	EnvQuiet     = "CACHESIM_QUIET"
	EnvBreakdown = "CACHESIM_BREAKDOWN"
	EnvRecord    = "CACHESIM_RECORD"
	EnvCSV       = "CACHESIM_CSV"
	EnvMetrics   = "CACHESIM_METRICS"
	EnvLogLevel  = "CACHESIM_LOG_LEVEL"
)

// Options represents the run options.
type Options struct {
	Trace     string `yaml:"trace"`
	Quiet     bool   `yaml:"quiet"`
	Breakdown bool   `yaml:"breakdown"`
	Output    Output `yaml:"output"`
	LogLevel  string `yaml:"log_level"`
}

// Output represents the optional recordings of a run. Empty paths disable
// the recording.
type Output struct {
	Record  string `yaml:"record"`
	CSV     string `yaml:"csv"`
	Metrics string `yaml:"metrics"`
}

// NewDefault creates options with default values
func NewDefault() *Options {
	return &Options{
		Trace:    DefaultTracePath,
		LogLevel: "WARN",
	}
}

// LoadFromFile loads options from a YAML file
func (o *Options) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("%w: failed to read config file: %w",
			ErrInvalidOptions, err)
	}

	if err := yaml.UnmarshalStrict(data, o); err != nil {
		return fmt.Errorf("%w: failed to parse config file: %w",
			ErrInvalidOptions, err)
	}

	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(filenames ...string) error {
	for _, f := range filenames {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("%w: failed to load %s: %w",
				ErrInvalidOptions, f, err)
		}
	}

	return nil
}

// LoadFromEnv loads options from environment variables
func (o *Options) LoadFromEnv() error {
	if val := os.Getenv(EnvTrace); val != "" {
		o.Trace = val
	}
	if val := os.Getenv(EnvQuiet); val != "" {
		o.Quiet = strings.ToLower(val) == "true"
	}
	if val := os.Getenv(EnvBreakdown); val != "" {
		o.Breakdown = strings.ToLower(val) == "true"
	}
	if val := os.Getenv(EnvRecord); val != "" {
		o.Output.Record = val
	}
	if val := os.Getenv(EnvCSV); val != "" {
		o.Output.CSV = val
	}
	if val := os.Getenv(EnvMetrics); val != "" {
		o.Output.Metrics = val
	}
	if val := os.Getenv(EnvLogLevel); val != "" {
		o.LogLevel = val
	}

	return nil
}

// SaveToFile saves the options to a YAML file
func (o *Options) SaveToFile(filename string) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the options
func (o *Options) Validate() error {
	if o.Trace == "" {
		return fmt.Errorf("%w: trace path must not be empty", ErrInvalidOptions)
	}

	if _, err := o.Level(); err != nil {
		return err
	}

	return nil
}

// Level converts LogLevel into a slog level.
func (o *Options) Level() (slog.Level, error) {
	switch strings.ToUpper(o.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf(
			"%w: invalid log_level: %s (must be one of: DEBUG, INFO, WARN, ERROR)",
			ErrInvalidOptions, o.LogLevel)
	}
}
