package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/markowitz"
	"github.com/etnz/markowitz/eodhd"
	"github.com/etnz/markowitz/renderer"
	"github.com/google/subcommands"
)

// searchCmd implements the "search" command.
type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search symbols on EODHD" }
func (*searchCmd) Usage() string {
	return `mvo search <search term>

  Searches instruments by name, ticker or ISIN via EOD Historical Data API
  and displays the symbols to use with the eodhd provider.

  Requires the EODHD_API_KEY environment variable to be set or passed as a flag.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	term := strings.Join(f.Args(), " ")

	key := apiKey(&markowitz.Config{})
	if key == "" {
		fmt.Fprintf(os.Stderr, "Error: EODHD API key is not set. Use -eodhd-api-key flag or %s environment variable\n", eodhdAPIKeyEnv)
		return subcommands.ExitFailure
	}
	opts := []eodhd.ClientOption{eodhd.WithLogger(newLogger())}
	if *cacheDir != "" {
		opts = append(opts, eodhd.WithCacheDir(*cacheDir))
	}
	results, err := eodhd.NewClient(key, opts...).Search(ctx, term)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching symbols: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SearchMarkdown(term, results))
	return subcommands.ExitSuccess
}
