package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const (
	POLICY_ABORT = "abort"
	POLICY_SKIP  = "skip"
)

// Config is the on-disk site configuration (YAML).
type Config struct {
	DataDir            string        `yaml:"data_dir"`
	OutputDir          string        `yaml:"output_dir"`
	Title              string        `yaml:"title"`
	Currency           string        `yaml:"currency"`
	ThousandsSeparator string        `yaml:"thousands_separator"`
	Windows            WindowsConfig `yaml:"windows"`
	// FailurePolicy is "abort" (report every failing car, write nothing) or
	// "skip" (leave failing cars out of the site).
	FailurePolicy   string `yaml:"failure_policy"`
	Workers         int    `yaml:"workers"`
	PriceBucketSize int    `yaml:"price_bucket_size"`
	MetricsFile     string `yaml:"metrics_file"`
	CheckLinks      bool   `yaml:"check_links"`
	Schedule        string `yaml:"schedule"`
}

type WindowsConfig struct {
	AnnualDays  int `yaml:"annual_days"`
	MonthlyDays int `yaml:"monthly_days"`
}

func Default() *Config {
	return &Config{
		DataDir:            "data",
		OutputDir:          "docs",
		Title:              "Fuel consumption",
		Currency:           "€",
		ThousandsSeparator: ".",
		Windows: WindowsConfig{
			AnnualDays:  365,
			MonthlyDays: 90,
		},
		FailurePolicy:   POLICY_ABORT,
		Workers:         4,
		PriceBucketSize: 10,
		Schedule:        "@every 1h",
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.OutputDir = getEnv("OUTPUT_DIR", c.OutputDir)
	c.FailurePolicy = getEnv("FAILURE_POLICY", c.FailurePolicy)
	c.MetricsFile = getEnv("METRICS_FILE", c.MetricsFile)
	c.Workers = getEnvInt("WORKERS", c.Workers)
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	var problems []string
	if c.DataDir == "" {
		problems = append(problems, "data_dir is required")
	}
	if c.OutputDir == "" {
		problems = append(problems, "output_dir is required")
	}
	if c.Windows.AnnualDays < 1 {
		problems = append(problems, fmt.Sprintf("windows.annual_days must be positive, got %d", c.Windows.AnnualDays))
	}
	if c.Windows.MonthlyDays < 1 {
		problems = append(problems, fmt.Sprintf("windows.monthly_days must be positive, got %d", c.Windows.MonthlyDays))
	}
	if c.FailurePolicy != POLICY_ABORT && c.FailurePolicy != POLICY_SKIP {
		problems = append(problems, fmt.Sprintf("failure_policy must be %q or %q, got %q", POLICY_ABORT, POLICY_SKIP, c.FailurePolicy))
	}
	if c.Workers < 1 {
		problems = append(problems, fmt.Sprintf("workers must be at least 1, got %d", c.Workers))
	}

	if len(problems) > 0 {
		return errors.Newf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
