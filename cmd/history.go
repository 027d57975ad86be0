package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/markowitz"
	"github.com/etnz/markowitz/csvfile"
	"github.com/etnz/markowitz/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	csv string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display a symbol's price history" }
func (*historyCmd) Usage() string {
	return `mvo history [-csv <dir>] <symbol>

  Displays the open and close prices fetched for a symbol. With -csv, the
  prices are also saved to <dir>/<symbol>.csv, readable by the csv provider.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csv, "csv", "", "Folder to save the prices to, as <symbol>.csv.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one symbol is required.")
		return subcommands.ExitUsageError
	}
	symbol := f.Arg(0)
	s, err := newSession(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	h, err := s.fetcher.FetchHistory(ctx, symbol, s.rng, s.cfg.Period(), markowitz.Open, markowitz.Close)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", symbol, err)
		return subcommands.ExitFailure
	}
	if c.csv != "" {
		if err := csvfile.Dir(c.csv).Save(symbol, h.Observations()); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving %s: %v\n", symbol, err)
			return subcommands.ExitFailure
		}
	}
	printMarkdown(renderer.HistoryMarkdown(symbol, h))
	return subcommands.ExitSuccess
}
