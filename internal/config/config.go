// Package config loads the YAML run configuration of the cvar tool.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"tail-risk-lab/internal/domain"
	"tail-risk-lab/internal/quantile"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Source kinds.
const (
	SourceCSV        = "csv"
	SourcePostgres   = "postgres"
	SourceClickHouse = "clickhouse"
)

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Environment variables consulted when a DSN is not set in the file.
const (
	EnvPostgresDSN   = "POSTGRES_DSN"
	EnvClickHouseDSN = "CLICKHOUSE_DSN"
)

// Config is the run configuration.
type Config struct {
	Quantile      float64                `yaml:"quantile"`
	Interpolation quantile.Interpolation `yaml:"interpolation"`
	Assets        []string               `yaml:"assets"`
	Window        Window                 `yaml:"window"`
	Source        Source                 `yaml:"source"`
	Output        Output                 `yaml:"output"`
	Log           Log                    `yaml:"log"`
}

// Window optionally restricts loaded P&L to [From, To], both inclusive.
type Window struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Source selects where scenarios are loaded from.
type Source struct {
	Kind          string `yaml:"kind"`
	CSVDir        string `yaml:"csv_dir"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickHouseDSN string `yaml:"clickhouse_dsn"`
}

// Output selects where reports and metrics are written.
type Output struct {
	Dir             string `yaml:"dir"`
	MetricsTextfile string `yaml:"metrics_textfile"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Quantile:      0.025,
		Interpolation: quantile.Lower,
		Source: Source{
			Kind:   SourceCSV,
			CSVDir: "data",
		},
		Output: Output{
			Dir: "reports",
		},
		Log: Log{
			Level:  "info",
			Format: LogFormatConsole,
		},
	}
}

// Load reads the YAML file at path over Default(), fills DSNs from the environment
// and validates the result. An empty path loads the defaults.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads the YAML file at path over Default() without validating it, so that
// callers can apply overrides first. An empty path returns the defaults.
func Read(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// decode rejects unknown keys so that typos do not silently fall back to defaults.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv fills unset DSNs from POSTGRES_DSN and CLICKHOUSE_DSN.
func (c *Config) ApplyEnv() {
	if c.Source.PostgresDSN == "" {
		c.Source.PostgresDSN = os.Getenv(EnvPostgresDSN)
	}
	if c.Source.ClickHouseDSN == "" {
		c.Source.ClickHouseDSN = os.Getenv(EnvClickHouseDSN)
	}
}

// Validate checks every field. All failures wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error

	if !(c.Quantile > 0 && c.Quantile < 1) {
		errs = append(errs, fmt.Errorf("quantile must be in (0, 1), got %v", c.Quantile))
	}
	if !c.Interpolation.Valid() {
		errs = append(errs, fmt.Errorf("interpolation %d is not supported", int(c.Interpolation)))
	}
	for _, a := range c.Assets {
		if strings.TrimSpace(a) == "" {
			errs = append(errs, errors.New("assets must not contain empty ids"))
			break
		}
	}
	if _, _, _, err := c.Window.Range(); err != nil {
		errs = append(errs, err)
	}

	switch c.Source.Kind {
	case SourceCSV:
		if c.Source.CSVDir == "" {
			errs = append(errs, errors.New("source.csv_dir is required for csv source"))
		}
	case SourcePostgres:
		if c.Source.PostgresDSN == "" {
			errs = append(errs, fmt.Errorf("source.postgres_dsn or %s is required for postgres source", EnvPostgresDSN))
		}
	case SourceClickHouse:
		if c.Source.ClickHouseDSN == "" {
			errs = append(errs, fmt.Errorf("source.clickhouse_dsn or %s is required for clickhouse source", EnvClickHouseDSN))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind must be one of %s, %s, %s; got %q",
			SourceCSV, SourcePostgres, SourceClickHouse, c.Source.Kind))
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != LogFormatConsole && c.Log.Format != LogFormatJSON {
		errs = append(errs, fmt.Errorf("log.format must be %s or %s, got %q", LogFormatConsole, LogFormatJSON, c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Range parses the window. set is false when both bounds are empty.
// A window needs both bounds, with From not after To.
func (w Window) Range() (from, to domain.Date, set bool, err error) {
	if w.From == "" && w.To == "" {
		return domain.Date{}, domain.Date{}, false, nil
	}
	if w.From == "" || w.To == "" {
		return domain.Date{}, domain.Date{}, false, errors.New("window needs both from and to")
	}
	from, err = domain.ParseDate(w.From)
	if err != nil {
		return domain.Date{}, domain.Date{}, false, fmt.Errorf("window.from: %w", err)
	}
	to, err = domain.ParseDate(w.To)
	if err != nil {
		return domain.Date{}, domain.Date{}, false, fmt.Errorf("window.to: %w", err)
	}
	if from.After(to) {
		return domain.Date{}, domain.Date{}, false, fmt.Errorf("window.from %s is after window.to %s", from, to)
	}
	return from, to, true, nil
}
