// Package cmd implements the mvo command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/markowitz"
	"github.com/etnz/markowitz/csvfile"
	"github.com/etnz/markowitz/date"
	"github.com/etnz/markowitz/eodhd"
	"github.com/etnz/markowitz/yahoo"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Commands are the subcommands of the application, a main package registers them.
var Commands = []subcommands.Command{
	&estimateCmd{},
	&mvpCmd{},
	&tangencyCmd{},
	&frontierCmd{},
	&evaluateCmd{},
	&statsCmd{},
	&historyCmd{},
	&searchCmd{},
	&topicCmd{},
}

const eodhdAPIKeyEnv = "EODHD_API_KEY"

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configPath  = flag.String("config", "", "Path to a YAML configuration file. Symbols given as arguments replace the configured ones.")
	providerArg = flag.String("provider", "", "Market data provider: eodhd, yahoo or csv. Overrides the configuration.")
	dataDir     = flag.String("data-dir", "", "Folder of SYMBOL.csv files for the csv provider.")
	cacheDir    = flag.String("cache-dir", "", "Folder to cache eodhd responses for the day.")
	eodhdAPIKey = flag.String("eodhd-api-key", "", "EODHD API key. This flag takes precedence over the "+eodhdAPIKeyEnv+" environment variable. You can get one at https://eodhd.com/")
	fromArg     = flag.String("from", "", "First day of the history, instead of the configured lookback.")
	toArg       = flag.String("to", "", "Last day of the history. Defaults to yesterday.")
	capitalArg  = flag.String("capital", "", "Amount to allocate, shown next to the weights.")
	currencyArg = flag.String("currency", "EUR", "Currency of the capital.")
	logLevel    = flag.String("log-level", "warn", "Log level: trace, debug, info, warn, error.")
	raw         = flag.Bool("raw", false, "Print markdown as is, without terminal rendering.")
)

// newLogger returns the console logger writing to stderr.
func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// loadConfig reads the configuration file if any, replaces its symbols with
// args when there are some, and applies the global flags.
func loadConfig(args []string) (*markowitz.Config, error) {
	cfg := &markowitz.Config{}
	if *configPath != "" {
		c, err := markowitz.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	if len(args) > 0 {
		cfg.Symbols = args
	}
	if *providerArg != "" {
		cfg.Provider.Name = *providerArg
	}
	if *dataDir != "" {
		cfg.Provider.DataDir = *dataDir
	}
	if *cacheDir != "" {
		cfg.Provider.CacheDir = *cacheDir
	}
	if key := apiKey(cfg); key != "" {
		cfg.Provider.APIKey = key
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apiKey retrieves the EODHD API key from the command-line flag, the environment
// variable or the configuration, in that order.
func apiKey(cfg *markowitz.Config) string {
	if *eodhdAPIKey != "" {
		return *eodhdAPIKey
	}
	if key := os.Getenv(eodhdAPIKeyEnv); key != "" {
		return key
	}
	return cfg.Provider.APIKey
}

// newFetcher returns the configured market data provider.
func newFetcher(cfg *markowitz.Config, logger zerolog.Logger) (markowitz.HistoryFetcher, error) {
	p := cfg.Provider
	switch p.Name {
	case "eodhd":
		key := p.APIKey
		if key == "" {
			logger.Warn().Msg("no EODHD API key, using the demo key")
			key = eodhd.DemoKey
		}
		opts := []eodhd.ClientOption{eodhd.WithLogger(logger), eodhd.WithRateLimit(p.RateLimit)}
		if p.CacheDir != "" {
			opts = append(opts, eodhd.WithCacheDir(p.CacheDir))
		}
		return eodhd.NewClient(key, opts...), nil
	case "yahoo":
		return yahoo.NewClient(yahoo.WithLogger(logger), yahoo.WithRateLimit(p.RateLimit)), nil
	case "csv":
		if p.DataDir == "" {
			return nil, errors.New("the csv provider needs a data directory, use -data-dir")
		}
		return csvfile.Dir(p.DataDir), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", p.Name)
	}
}

// historyRange returns the window set by -from and -to, falling back to the
// configured lookback for the missing bound.
func historyRange(cfg *markowitz.Config) (date.Range, error) {
	r := cfg.Range(date.Today())
	if *fromArg != "" {
		d, err := date.Parse(*fromArg)
		if err != nil {
			return r, err
		}
		r.From = d
	}
	if *toArg != "" {
		d, err := date.Parse(*toArg)
		if err != nil {
			return r, err
		}
		r.To = d
	}
	return r, nil
}

// session is what every command needs: a configuration, a provider and a logger.
type session struct {
	cfg     *markowitz.Config
	fetcher markowitz.HistoryFetcher
	rng     date.Range
	logger  zerolog.Logger
}

func newSession(args []string) (*session, error) {
	logger := newLogger()
	cfg, err := loadConfig(args)
	if err != nil {
		return nil, err
	}
	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		return nil, err
	}
	rng, err := historyRange(cfg)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, fetcher: fetcher, rng: rng, logger: logger}, nil
}

// load fetches the histories and estimates of the session's symbols.
func (s *session) load(ctx context.Context) (*markowitz.Universe, error) {
	return markowitz.Load(ctx, s.fetcher, s.cfg, s.options()...)
}

func (s *session) options() []markowitz.Option {
	return []markowitz.Option{markowitz.WithLogger(s.logger), markowitz.WithRange(s.rng)}
}

// printWarnings reports the instruments that were loaded with issues.
func printWarnings(u *markowitz.Universe) {
	for _, w := range u.Warnings() {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", w)
	}
}

// capital returns the -capital flag as money, zero when unset.
func capital() (markowitz.Money, error) {
	if *capitalArg == "" {
		return markowitz.Money{}, nil
	}
	return markowitz.ParseMoney(*capitalArg, *currencyArg)
}
