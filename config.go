package markowitz

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/etnz/markowitz/date"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the construction time parameters of an optimization.
type Config struct {
	// Symbols are the instruments, duplicate free.
	Symbols []string `yaml:"symbols" validate:"required,min=1,unique,dive,required"`
	// LookbackYears is the length of the price history, ending yesterday.
	LookbackYears int `yaml:"lookback_years" default:"5" validate:"gte=1,lte=100"`
	// RiskFreeRate is the annualized rate used by the tangency portfolio.
	RiskFreeRate *float64 `yaml:"risk_free_rate" default:"0.04"`
	// Annualization is the number of periods in a year. Zero means the
	// usual count for Interval, see Factor.
	Annualization float64 `yaml:"annualization" validate:"gte=0"`
	// Interval is the sampling period of the prices.
	Interval string `yaml:"interval" default:"daily" validate:"oneof=daily weekly monthly"`

	Provider ProviderConfig `yaml:"provider"`
}

// ProviderConfig selects and configures the market data provider.
type ProviderConfig struct {
	Name      string `yaml:"name" default:"eodhd" validate:"oneof=eodhd yahoo csv"`
	APIKey    string `yaml:"api_key"`
	DataDir   string `yaml:"data_dir"`  // csv only
	CacheDir  string `yaml:"cache_dir"` // http providers only, empty disables the cache
	RateLimit int    `yaml:"rate_limit" default:"10" validate:"gte=1"`
}

var validate = validator.New()

// NewConfig returns a valid configuration for symbols with every default set.
func NewConfig(symbols ...string) (*Config, error) {
	c := &Config{Symbols: symbols}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig parses and validates a YAML configuration.
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate sets the missing defaults on c, in place, then checks every field.
func (c *Config) Validate() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("validate config: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// RiskFree returns the configured risk-free rate.
func (c *Config) RiskFree() float64 {
	if c.RiskFreeRate == nil {
		return DefaultRiskFreeRate
	}
	return *c.RiskFreeRate
}

// Period returns the sampling interval.
func (c *Config) Period() date.Period {
	p, err := date.ParsePeriod(c.Interval)
	if err != nil {
		return date.Daily
	}
	return p
}

// Factor returns the annualization factor: Annualization when set, otherwise
// the number of periods of the interval in a year.
func (c *Config) Factor() float64 {
	if c.Annualization > 0 {
		return c.Annualization
	}
	return c.Period().PerYear()
}

// Range returns the history window ending the day before today.
func (c *Config) Range(today date.Date) date.Range {
	return date.Lookback(today, c.LookbackYears)
}
