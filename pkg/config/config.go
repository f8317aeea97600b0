// Package config loads run configuration from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/mimir-aip/kraljic-go/pkg/classify"
	"github.com/mimir-aip/kraljic-go/pkg/encoding"
	"github.com/mimir-aip/kraljic-go/pkg/loader"
	"github.com/mimir-aip/kraljic-go/pkg/pipeline"
	"github.com/mimir-aip/kraljic-go/pkg/preprocess"
	"github.com/mimir-aip/kraljic-go/pkg/table"
)

// Config holds the application configuration
type Config struct {
	Environment string              `yaml:"environment"`
	LogLevel    string              `yaml:"log_level"`
	Inputs      InputsConfig        `yaml:"inputs"`
	Output      OutputConfig        `yaml:"output"`
	Currency    CurrencyConfig      `yaml:"currency"`
	Dates       DatesConfig         `yaml:"dates"`
	Encoding    EncodingConfig      `yaml:"encoding"`
	Thresholds  classify.Thresholds `yaml:"thresholds"`
	Schedule    string              `yaml:"schedule"`
}

// InputsConfig locates the four input files
type InputsConfig struct {
	DataDir       string       `yaml:"data_dir"`
	Files         loader.Files `yaml:"files"`
	Delimiter     string       `yaml:"delimiter"`
	MissingTokens []string     `yaml:"missing_tokens"`
}

// OutputConfig controls what a run writes besides the printed tables
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	WriteCSV     bool   `yaml:"write_csv"`
	WriteScatter bool   `yaml:"write_scatter"`
	MetricsFile  string `yaml:"metrics_file"`
}

// CurrencyConfig is the price conversion table
type CurrencyConfig struct {
	Target        string             `yaml:"target"`
	Rates         map[string]float64 `yaml:"rates"`
	UnknownPolicy string             `yaml:"unknown_policy"`
}

// DatesConfig lists the accepted shipment date layouts
type DatesConfig struct {
	Layouts    []string `yaml:"layouts"`
	AutoDetect bool     `yaml:"auto_detect"`
}

// EncodingConfig selects the categorical code assignment
type EncodingConfig struct {
	Strategy string `yaml:"strategy"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	currency := preprocess.DefaultCurrencyOptions()
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Inputs: InputsConfig{
			DataDir:       "data",
			Files:         loader.DefaultFiles(),
			Delimiter:     ",",
			MissingTokens: table.DefaultMissingTokens,
		},
		Output: OutputConfig{
			Dir:          "output",
			WriteCSV:     true,
			WriteScatter: true,
		},
		Currency: CurrencyConfig{
			Target:        currency.Target,
			Rates:         currency.Rates,
			UnknownPolicy: string(currency.UnknownPolicy),
		},
		Dates: DatesConfig{
			Layouts: preprocess.DefaultDateLayouts,
		},
		Encoding: EncodingConfig{
			Strategy: string(encoding.FirstSeen),
		},
		Thresholds: classify.DefaultThresholds(),
	}
}

// LoadConfig loads configuration from environment variables over the defaults
func LoadConfig() (*Config, error) {
	return Load("")
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Inputs.DataDir = getEnv("KRALJIC_DATA_DIR", c.Inputs.DataDir)
	c.Output.Dir = getEnv("KRALJIC_OUTPUT_DIR", c.Output.Dir)
	c.Output.MetricsFile = getEnv("KRALJIC_METRICS_FILE", c.Output.MetricsFile)
	c.Encoding.Strategy = getEnv("KRALJIC_ENCODING", c.Encoding.Strategy)
	c.Schedule = getEnv("KRALJIC_SCHEDULE", c.Schedule)
	c.Thresholds.Risk = getEnvAsFloat("KRALJIC_RISK_THRESHOLD", c.Thresholds.Risk)
	c.Thresholds.Impact = getEnvAsFloat("KRALJIC_IMPACT_THRESHOLD", c.Thresholds.Impact)
}

// Validate checks the configuration for values no run could use
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if _, err := encoding.ParseStrategy(c.Encoding.Strategy); err != nil {
		return err
	}

	switch preprocess.CurrencyPolicy(c.Currency.UnknownPolicy) {
	case preprocess.CurrencyPassThrough, preprocess.CurrencyReject:
	default:
		return fmt.Errorf("invalid unknown currency policy: %s", c.Currency.UnknownPolicy)
	}
	if c.Currency.Target == "" {
		return fmt.Errorf("target currency is required")
	}
	for currency, rate := range c.Currency.Rates {
		if rate <= 0 {
			return fmt.Errorf("conversion rate for %s must be positive, got %v", currency, rate)
		}
	}

	if len(c.Dates.Layouts) == 0 && !c.Dates.AutoDetect {
		return fmt.Errorf("at least one date layout is required unless auto_detect is enabled")
	}

	if len([]rune(c.Inputs.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Inputs.Delimiter)
	}

	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
	}

	return nil
}

// PipelineOptions converts the configuration into run options
func (c *Config) PipelineOptions() pipeline.Options {
	strategy, _ := encoding.ParseStrategy(c.Encoding.Strategy)
	return pipeline.Options{
		Currency: preprocess.CurrencyOptions{
			Target:        c.Currency.Target,
			Rates:         c.Currency.Rates,
			UnknownPolicy: preprocess.CurrencyPolicy(c.Currency.UnknownPolicy),
		},
		Dates: preprocess.DateOptions{
			Layouts:    c.Dates.Layouts,
			AutoDetect: c.Dates.AutoDetect,
		},
		Strategy:   strategy,
		Thresholds: c.Thresholds,
	}
}

// Loader returns a CSV loader for the configured inputs
func (c *Config) Loader() *loader.CSVLoader {
	l := loader.NewCSVLoader(c.Inputs.DataDir)
	if r := []rune(c.Inputs.Delimiter); len(r) == 1 {
		l.Delimiter = r[0]
	}
	if c.Inputs.MissingTokens != nil {
		l.MissingTokens = c.Inputs.MissingTokens
	}
	return l
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
