package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/markowitz"
	"github.com/etnz/markowitz/renderer"
	"github.com/google/subcommands"
)

type statsCmd struct{}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display descriptive statistics of a symbol's returns" }
func (*statsCmd) Usage() string {
	return `mvo stats <symbol>

  Displays the arithmetic and geometric mean returns and the standard
  deviation of a single symbol, per period and annualized.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {}

func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	h, err := s.fetcher.FetchHistory(ctx, symbol, s.rng, s.cfg.Period(), markowitz.Close)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", symbol, err)
		return subcommands.ExitFailure
	}
	returns, err := markowitz.Returns(h.Closes())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing returns of %s: %v\n", symbol, err)
		return subcommands.ExitFailure
	}
	stats, err := markowitz.Describe(returns, s.cfg.Factor())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error describing %s: %v\n", symbol, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.StatsMarkdown(symbol, stats))
	return subcommands.ExitSuccess
}
